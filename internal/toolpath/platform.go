package toolpath

import (
	"runtime"
	"strings"
)

// Platform identifies the OS class a tool executable is built for.
type Platform string

const (
	Windows Platform = "windows"
	Linux   Platform = "linux"
	Darwin  Platform = "darwin"
	FreeBSD Platform = "freebsd"
)

// PlatformOf maps an OS name to a Platform. Both GOOS values ("windows",
// "darwin") and recipe setting values ("Windows", "Macos") are accepted.
func PlatformOf(os string) Platform {
	s := strings.ToLower(os)
	switch {
	case strings.HasPrefix(s, "windows"):
		return Windows
	case s == "macos" || s == "darwin" || s == "ios" || s == "tvos" || s == "watchos":
		return Darwin
	}
	return Platform(s)
}

// HostPlatform returns the platform of the running process.
func HostPlatform() Platform {
	return PlatformOf(runtime.GOOS)
}

// ExecutableSuffix returns the file name suffix of executables on p.
func (p Platform) ExecutableSuffix() string {
	if p == Windows {
		return ".exe"
	}
	return ""
}

// Separator returns the path separator used on p.
func (p Platform) Separator() string {
	if p == Windows {
		return `\`
	}
	return "/"
}

// Join appends name to dir with p's separator. dir is otherwise left as
// given so that callers get back exactly the directory they declared.
func (p Platform) Join(dir, name string) string {
	if dir == "" {
		return name
	}
	trim := "/"
	if p == Windows {
		trim = `\/`
	}
	return strings.TrimRight(dir, trim) + p.Separator() + name
}

// Executable returns the file name of tool on p.
func (p Platform) Executable(tool string) string {
	return tool + p.ExecutableSuffix()
}

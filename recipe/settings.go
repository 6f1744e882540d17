package recipe

import (
	"bufio"
	"fmt"
	"os"
	"runtime"

	"github.com/pelletier/go-toml/v2"
)

// Settings is the build-configuration context of one pass.
type Settings struct {
	OS        string `toml:"os" expr:"os"`
	Arch      string `toml:"arch" expr:"arch"`
	Compiler  string `toml:"compiler" expr:"compiler"`
	BuildType string `toml:"build_type" expr:"build_type"`
}

// Setting keys a recipe may declare.
var settingKeys = []string{"os", "arch", "compiler", "build_type"}

func (s Settings) get(key string) string {
	switch key {
	case "os":
		return s.OS
	case "arch":
		return s.Arch
	case "compiler":
		return s.Compiler
	case "build_type":
		return s.BuildType
	}
	return ""
}

var hostOS = map[string]string{
	"windows": "Windows",
	"linux":   "Linux",
	"darwin":  "Macos",
	"freebsd": "FreeBSD",
	"android": "Android",
}

var hostArch = map[string]string{
	"amd64":   "x86_64",
	"386":     "x86",
	"arm64":   "armv8",
	"arm":     "armv7",
	"riscv64": "riscv64",
}

var hostCompiler = map[string]string{
	"windows": "msvc",
	"darwin":  "apple-clang",
}

// HostSettings describes the running machine, with a Release build type.
func HostSettings() Settings {
	s := Settings{
		OS:        hostOS[runtime.GOOS],
		Arch:      hostArch[runtime.GOARCH],
		Compiler:  hostCompiler[runtime.GOOS],
		BuildType: "Release",
	}
	if s.OS == "" {
		s.OS = runtime.GOOS
	}
	if s.Arch == "" {
		s.Arch = runtime.GOARCH
	}
	if s.Compiler == "" {
		s.Compiler = "gcc"
	}
	return s
}

// Merge returns s with every non-empty field of o applied on top.
func (s Settings) Merge(o Settings) Settings {
	if o.OS != "" {
		s.OS = o.OS
	}
	if o.Arch != "" {
		s.Arch = o.Arch
	}
	if o.Compiler != "" {
		s.Compiler = o.Compiler
	}
	if o.BuildType != "" {
		s.BuildType = o.BuildType
	}
	return s
}

type profileFile struct {
	Settings Settings `toml:"settings"`
}

// LoadProfile reads the [settings] table of a TOML profile.
func LoadProfile(path string) (Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return Settings{}, err
	}
	defer f.Close()

	var p profileFile
	dec := toml.NewDecoder(bufio.NewReader(f))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Settings{}, fmt.Errorf("profile %s: %w", path, decodeError(err))
	}
	return p.Settings, nil
}

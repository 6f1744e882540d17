package cmake

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strings"

	"github.com/goplus/recipe/internal/artifact"
	"github.com/goplus/recipe/internal/msg"
	"github.com/goplus/recipe/internal/toolchain"
	"github.com/goplus/recipe/pkgs/buildsys"
)

// ToolchainFilename is the name of the toolchain file written into the
// generators folder.
const ToolchainFilename = "recipe_toolchain.cmake"

type defineValue struct {
	value    string
	typeName string
}

// CMake wraps common CMake build steps with chainable configuration.
type CMake struct {
	SourceDir     string
	buildDir      string
	generatorsDir string
	installDir    string
	generator     string
	buildType     string
	toolchain     string
	Defines       map[string]defineValue
	env           map[string]string
}

var _ buildsys.BuildSystem = (*CMake)(nil)

// New creates a CMake helper over a declared layout.
func New(l toolchain.Layout) *CMake {
	return &CMake{
		SourceDir:     l.Source,
		buildDir:      l.Build,
		generatorsDir: l.Generators,
		Defines:       map[string]defineValue{},
		env:           map[string]string{},
	}
}

func (c *CMake) Source(dir string) {
	c.SourceDir = dir
}

func (c *CMake) InstallDir(dir string) {
	c.installDir = dir
}

func (c *CMake) Generator(name string) *CMake {
	c.generator = name
	return c
}

func (c *CMake) BuildType(name string) *CMake {
	c.buildType = name
	return c
}

// ToolchainFile returns the path of the toolchain file passed to cmake,
// or "" if none was set.
func (c *CMake) ToolchainFile() string {
	return c.toolchain
}

func (c *CMake) Define(key, value string) *CMake {
	return c.define(key, value, "STRING")
}

func (c *CMake) DefinePath(key, value string) *CMake {
	return c.define(key, value, "FILEPATH")
}

func (c *CMake) define(key, value, typeName string) *CMake {
	if c.Defines == nil {
		c.Defines = map[string]defineValue{}
	}
	c.Defines[key] = defineValue{value: value, typeName: typeName}
	return c
}

func (c *CMake) Env(key, value string) {
	if c.env == nil {
		c.env = map[string]string{}
	}
	c.env[key] = value
}

// Toolchain writes desc as a toolchain file into the generators folder and
// defines each of its variables for the configure step.
func (c *CMake) Toolchain(desc *toolchain.Description) error {
	if c.generatorsDir == "" {
		return fmt.Errorf("cmake: no generators folder to write %s into", ToolchainFilename)
	}
	path, err := WriteToolchainFile(c.generatorsDir, desc)
	if err != nil {
		return err
	}
	c.toolchain = path
	for name, value := range desc.Vars() {
		c.DefinePath(name, value)
	}
	return nil
}

// Use configures the build environment to find the headers, libraries and
// programs of dep. Categories the dependency does not declare are skipped.
func (c *CMake) Use(dep artifact.Dependency) {
	dirs := func(cat artifact.Category) []string {
		d, err := artifact.Locate(dep, cat)
		if err != nil {
			msg.Debug("cmake: %v", err)
		}
		return d
	}
	includeDirs := dirs(artifact.Headers)
	libDirs := dirs(artifact.Libraries)

	// CMAKE paths (all platforms)
	for _, dir := range includeDirs {
		c.prependEnv("CMAKE_INCLUDE_PATH", dir)
	}
	for _, dir := range libDirs {
		c.prependEnv("CMAKE_LIBRARY_PATH", dir)
	}
	for _, dir := range dirs(artifact.Binaries) {
		c.prependEnv("CMAKE_PROGRAM_PATH", dir)
	}

	// Platform-specific settings
	if runtime.GOOS == "windows" {
		for _, dir := range includeDirs {
			c.prependEnv("INCLUDE", dir)
		}
		for _, dir := range libDirs {
			c.prependEnv("LIB", dir)
		}
		return
	}
	for _, dir := range includeDirs {
		c.appendFlag("CPPFLAGS", "-I"+dir)
	}
	for _, dir := range libDirs {
		c.appendFlag("LDFLAGS", "-L"+dir)
	}
}

// ConfigureArgs returns the arguments of the configure step.
func (c *CMake) ConfigureArgs(args ...string) []string {
	cmakeArgs := []string{"-S", c.SourceDir, "-B", c.BuildDir()}
	if c.generator != "" {
		cmakeArgs = append(cmakeArgs, "-G", c.generator)
	}
	defs := c.definesArgs()
	if c.toolchain != "" {
		defs = append([]string{"-DCMAKE_TOOLCHAIN_FILE:FILEPATH=" + c.toolchain}, defs...)
	}
	cmakeArgs = append(cmakeArgs, defs...)
	return append(cmakeArgs, args...)
}

func (c *CMake) Configure(args ...string) error {
	if err := os.MkdirAll(c.BuildDir(), 0755); err != nil {
		return err
	}
	if c.installDir != "" {
		c.Define("CMAKE_INSTALL_PREFIX", c.installDir)
	}
	if c.buildType != "" && !toolchain.IsMultiConfig(c.generator, "") {
		c.Define("CMAKE_BUILD_TYPE", c.buildType)
	}
	return run("cmake", c.ConfigureArgs(args...), c.env)
}

func (c *CMake) Build(args ...string) error {
	cmdArgs := []string{"--build", c.BuildDir()}
	if c.buildType != "" {
		cmdArgs = append(cmdArgs, "--config", c.buildType)
	}
	cmdArgs = append(cmdArgs, args...)
	return run("cmake", cmdArgs, c.env)
}

func (c *CMake) Install(args ...string) error {
	cmdArgs := []string{"--install", c.BuildDir()}
	if c.buildType != "" {
		cmdArgs = append(cmdArgs, "--config", c.buildType)
	}
	if c.installDir != "" {
		cmdArgs = append(cmdArgs, "--prefix", c.installDir)
	}
	cmdArgs = append(cmdArgs, args...)
	return run("cmake", cmdArgs, c.env)
}

// BuildDir returns the build folder, "build" if the layout left it empty.
func (c *CMake) BuildDir() string {
	if c.buildDir == "" {
		return "build"
	}
	return c.buildDir
}

// OutputDir returns the install dir if set, otherwise the build dir.
func (c *CMake) OutputDir() string {
	if c.installDir != "" {
		return c.installDir
	}
	return c.BuildDir()
}

func (c *CMake) definesArgs() []string {
	if len(c.Defines) == 0 {
		return nil
	}
	keys := make([]string, 0, len(c.Defines))
	for k := range c.Defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, 0, len(keys))
	for _, k := range keys {
		def := c.Defines[k]
		if def.typeName != "" {
			args = append(args, "-D"+k+":"+def.typeName+"="+def.value)
			continue
		}
		args = append(args, "-D"+k+"="+def.value)
	}
	return args
}

// ToolchainFileContent renders desc as cache entries, sorted by name.
func ToolchainFileContent(desc *toolchain.Description) []byte {
	var b bytes.Buffer
	b.WriteString("# Generated by recipe. Do not edit.\n")
	names := desc.Names()
	slices.Sort(names)
	for _, name := range names {
		value, _ := desc.Get(name)
		fmt.Fprintf(&b, "set(%s \"%s\" CACHE FILEPATH \"\" FORCE)\n", name, quoter.Replace(value))
	}
	return b.Bytes()
}

var quoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`, `;`, `\;`)

// WriteToolchainFile writes the toolchain file for desc into dir and
// returns its path.
func WriteToolchainFile(dir string, desc *toolchain.Description) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, ToolchainFilename)
	if err := os.WriteFile(path, ToolchainFileContent(desc), 0644); err != nil {
		return "", fmt.Errorf("write toolchain file: %w", err)
	}
	return path, nil
}

// run executes bin; tests replace it.
var run = func(bin string, args []string, env map[string]string) error {
	msg.Debug("%s %s", bin, strings.Join(args, " "))
	cmd := exec.Command(bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if len(env) > 0 {
		cmd.Env = mergeEnv(os.Environ(), env)
	}
	return cmd.Run()
}

func mergeEnv(base []string, override map[string]string) []string {
	envMap := make(map[string]string, len(base))
	for _, kv := range base {
		if k, v, ok := strings.Cut(kv, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range override {
		envMap[k] = v
	}
	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+envMap[k])
	}
	return out
}

// lookupEnv returns the helper's value for key, falling back to the process
// environment.
func (c *CMake) lookupEnv(key string) string {
	if v, ok := c.env[key]; ok {
		return v
	}
	return os.Getenv(key)
}

// prependEnv prepends a value to a path list variable.
func (c *CMake) prependEnv(key, value string) {
	current := c.lookupEnv(key)
	if current == "" {
		c.Env(key, value)
		return
	}
	c.Env(key, value+string(filepath.ListSeparator)+current)
}

// appendFlag appends a flag to a space-separated variable.
func (c *CMake) appendFlag(key, flag string) {
	c.Env(key, strings.TrimSpace(c.lookupEnv(key)+" "+flag))
}

package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/goplus/recipe/internal/msg"
	"github.com/goplus/recipe/internal/pass"
	"github.com/goplus/recipe/mod/graph"
	"github.com/goplus/recipe/recipe"
)

// GraphFilename is the resolved dependency graph looked up next to the
// recipe when --graph is not given.
const GraphFilename = "graph.json"

var (
	flagRecipe    string
	flagGraph     string
	flagProfile   string
	flagOS        string
	flagArch      string
	flagCompiler  string
	flagGenerator string
	flagVerbose   bool
	flagBuildType = NewEnumValue("Release", map[string]string{
		"Debug":          "No optimization, full debug info",
		"Release":        "Full optimization (default)",
		"RelWithDebInfo": "Optimization with debug info",
		"MinSizeRel":     "Optimize for size",
	})
)

var rootCmd = &cobra.Command{
	Use:   "recipe",
	Short: "recipe configures native builds from a resolved dependency graph",
	Long: `recipe reads a recipe file and the resolved dependency graph, declares the
build layout and emits the toolchain variables that locate build tools
shipped by dependencies.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		msg.SetVerbose(flagVerbose)
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVarP(&flagRecipe, "recipe", "r", recipe.Filename, "Recipe file")
	f.StringVar(&flagGraph, "graph", "", "Resolved dependency graph (default: "+GraphFilename+" next to the recipe)")
	f.StringVarP(&flagProfile, "profile", "p", "", "Settings profile file")
	f.StringVar(&flagOS, "os", "", "Target os setting (default: host)")
	f.StringVar(&flagArch, "arch", "", "Target arch setting (default: host)")
	f.StringVar(&flagCompiler, "compiler", "", "Compiler setting (default: host)")
	f.StringVarP(&flagGenerator, "generator", "G", "", "CMake generator")
	f.VarP(&flagBuildType, "build-type", "b", "Build type, one of "+flagBuildType.HelpString())
	f.BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.RegisterFlagCompletionFunc("build-type", flagBuildType.CompletionFunc())
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		msg.Fatal("%v", err)
	}
}

// loadSettings layers host defaults, the profile and explicit flags, in
// that order.
func loadSettings(cmd *cobra.Command) (recipe.Settings, error) {
	s := recipe.HostSettings()
	if flagProfile != "" {
		p, err := recipe.LoadProfile(flagProfile)
		if err != nil {
			return recipe.Settings{}, err
		}
		s = s.Merge(p)
	}
	flags := recipe.Settings{OS: flagOS, Arch: flagArch, Compiler: flagCompiler}
	if cmd.Flags().Changed("build-type") {
		flags.BuildType = flagBuildType.Value()
	}
	return s.Merge(flags), nil
}

// loadGraph reads the graph file. Without --graph, a missing default file
// yields an empty graph.
func loadGraph(r *recipe.Recipe) (*graph.Graph, error) {
	path := flagGraph
	if path == "" {
		path = filepath.Join(r.Dir, GraphFilename)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			msg.Debug("no %s, using an empty graph", path)
			return &graph.Graph{}, nil
		}
	}
	g, err := graph.Parse(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load graph %s: %w", path, err)
	}
	return g, nil
}

// loadOptions gathers everything a pass needs from the flags.
func loadOptions(cmd *cobra.Command) (pass.Options, error) {
	r, err := recipe.Load(flagRecipe)
	if err != nil {
		return pass.Options{}, fmt.Errorf("failed to load recipe: %w", err)
	}
	g, err := loadGraph(r)
	if err != nil {
		return pass.Options{}, err
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return pass.Options{}, err
	}
	msg.Debug("settings: os=%s arch=%s compiler=%s build_type=%s", s.OS, s.Arch, s.Compiler, s.BuildType)
	return pass.Options{
		Recipe:    r,
		Graph:     g,
		Settings:  s,
		Generator: flagGenerator,
	}, nil
}

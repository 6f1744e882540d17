package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goplus/recipe/internal/msg"
	"github.com/goplus/recipe/internal/pass"
	"github.com/goplus/recipe/pkgs/buildsys/cmake"
)

var configureInstallDir string

var configureCmd = &cobra.Command{
	Use:   "configure [-- cmake args...]",
	Short: "Run a configuration pass, then configure the project with CMake",
	Long: `Configure does what install does, then runs cmake on the source folder
with the generated toolchain file. Arguments after -- are passed to cmake.`,
	RunE: runConfigure,
}

func init() {
	configureCmd.Flags().StringVar(&configureInstallDir, "install-dir", "", "CMAKE_INSTALL_PREFIX for the project")
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	l, desc, err := pass.Run(opts)
	if err != nil {
		return err
	}

	c := cmake.New(l)
	c.Generator(opts.Generator).BuildType(opts.Settings.BuildType)
	if configureInstallDir != "" {
		c.InstallDir(configureInstallDir)
	}
	// writes the toolchain file, as install does
	if err := c.Toolchain(desc); err != nil {
		return err
	}
	for _, name := range opts.Graph.Names() {
		dep, err := opts.Graph.Lookup(name)
		if err != nil {
			return err
		}
		c.Use(dep)
	}
	if err := c.Configure(args...); err != nil {
		return fmt.Errorf("cmake configure: %w", err)
	}
	msg.Info("Configured %s in %s", opts.Recipe.Package.Name, l.Build)
	return nil
}

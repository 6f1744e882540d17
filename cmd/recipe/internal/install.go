package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goplus/recipe/internal/pass"
	"github.com/goplus/recipe/internal/toolchain"
	"github.com/goplus/recipe/pkgs/buildsys/cmake"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Run a configuration pass and write the toolchain file",
	Long: `Install declares the layout, generates the toolchain and writes it as
` + cmake.ToolchainFilename + ` into the generators folder.`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	_, _, path, err := install(opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// install runs a whole pass and writes its toolchain file.
func install(opts pass.Options) (toolchain.Layout, *toolchain.Description, string, error) {
	l, desc, err := pass.Run(opts)
	if err != nil {
		return toolchain.Layout{}, nil, "", err
	}
	path, err := cmake.WriteToolchainFile(l.Generators, desc)
	if err != nil {
		return toolchain.Layout{}, nil, "", err
	}
	return l, desc, path, nil
}

package internal

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goplus/recipe/internal/pass"
)

var toolchainFormat = newFormatValue()

var toolchainCmd = &cobra.Command{
	Use:   "toolchain",
	Short: "Print the toolchain variables",
	Long: `Toolchain resolves every tool the recipe declares for the current settings
in its dependency's binaries and prints the resulting cache variables.`,
	Args: cobra.NoArgs,
	RunE: runToolchain,
}

func init() {
	addFormatFlag(toolchainCmd, &toolchainFormat)
	rootCmd.AddCommand(toolchainCmd)
}

func runToolchain(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	p, err := pass.New(opts)
	if err != nil {
		return err
	}
	desc, err := p.GenerateToolchain()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if toolchainFormat.Value() == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(desc)
	}
	for _, name := range desc.Names() {
		value, _ := desc.Get(name)
		fmt.Fprintf(out, "%s=%s\n", name, value)
	}
	return nil
}

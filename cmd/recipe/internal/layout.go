package internal

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goplus/recipe/internal/pass"
)

var layoutFormat = newFormatValue()

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print the build layout",
	Long:  `Layout declares the source, build and generators folders for the current settings and prints them.`,
	Args:  cobra.NoArgs,
	RunE:  runLayout,
}

func init() {
	addFormatFlag(layoutCmd, &layoutFormat)
	rootCmd.AddCommand(layoutCmd)
}

func runLayout(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	p, err := pass.New(opts)
	if err != nil {
		return err
	}
	l, err := p.DeclareLayout()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if layoutFormat.Value() == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(l)
	}
	fmt.Fprintf(out, "source=%s\n", l.Source)
	fmt.Fprintf(out, "build=%s\n", l.Build)
	fmt.Fprintf(out, "generators=%s\n", l.Generators)
	return nil
}

func newFormatValue() EnumValue {
	return NewEnumValue("lines", map[string]string{
		"lines": "One name=value pair per line (default)",
		"json":  "A JSON object",
	})
}

func addFormatFlag(cmd *cobra.Command, v *EnumValue) {
	cmd.Flags().VarP(v, "format", "f", "Output format, one of "+v.HelpString())
	cmd.RegisterFlagCompletionFunc("format", v.CompletionFunc())
}

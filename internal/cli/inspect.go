package cli

import (
	"github.com/spf13/cobra"

	"github.com/hexaforge/imwrap/internal/cppast"
)

var inspectUSR bool

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <header>",
	Short: "Print the declaration tree parsed from a C++ header",
	Long: `Inspect parses the given header with the configured defines and prints
the declaration tree the generator would traverse. With --usr each declaration
also shows the symbol reference accepted by the skip.usrs configuration, which
is the practical way to build a skip list.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		unit, err := cppast.ParseFile(args[0], cppast.Options{
			Defines:     cfg.Parser.Defines,
			StripMacros: cfg.Parser.StripMacros,
		})
		if err != nil {
			return err
		}
		unit.Dump(cmd.OutOrStdout(), inspectUSR)
		return nil
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectUSR, "usr", false, "print unified symbol references")
	rootCmd.AddCommand(inspectCmd)
}

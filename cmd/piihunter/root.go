package main

import (
	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "piihunter",
		Short: "PII-Hunter - find personal data in files",
		Long: `PII-Hunter scans text, PDF and spreadsheet files for personally identifiable
information: credit card numbers (Luhn-validated), email addresses and phone numbers.
Findings are written to a report grouped by file and type.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Config file (default: piihunter.yaml in . or $HOME/.piihunter)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "console", "Log format: console, json")

	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newPatternsCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

package cli

import (
	"github.com/ray/billdesk/internal/app"
	"github.com/spf13/cobra"
)

var appInstance *app.App

var rootCmd = &cobra.Command{
	Use:   "billdesk",
	Short: "A back-office tool for warranty billing",
	Long: `Billdesk manages builders, invoices, and expenses against a remote store.

Invoices move draft -> sent -> paid; sending renders the invoice PDF and
emails it to the builder.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetApp sets the app instance for commands to use
func SetApp(a *app.App) {
	appInstance = a
}

func init() {
	// Add all subcommands
	rootCmd.AddCommand(invoicesCmd)
	rootCmd.AddCommand(buildersCmd)
	rootCmd.AddCommand(expensesCmd)
	rootCmd.AddCommand(authCmd)
}

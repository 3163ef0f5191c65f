package cli

import (
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ray/billdesk/internal/crypto"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the remote store API token",
	Long: `Manage the API token used to reach the remote store.

The token lives in the system keyring (or the BILLDESK_API_TOKEN
environment variable on platforms without one).`,
}

var authSetTokenCmd = &cobra.Command{
	Use:   "set-token",
	Short: "Store a new API token",
	RunE: func(cmd *cobra.Command, args []string) error {
		keyring := crypto.NewKeyring()

		fmt.Print("Enter your API token: ")
		token, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
		if len(token) == 0 {
			return fmt.Errorf("token cannot be empty")
		}

		if err := keyring.SetToken(string(token)); err != nil {
			return fmt.Errorf("failed to store API token: %w", err)
		}

		fmt.Println("API token stored")
		return nil
	},
}

var authResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove the stored API token",
	Long:  `Remove the stored API token. The next run will prompt for a new one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmPrompt("This removes the stored API token. Continue?") {
			fmt.Println("Cancelled.")
			return nil
		}

		keyring := crypto.NewKeyring()
		if err := keyring.DeleteToken(); err != nil {
			return fmt.Errorf("failed to remove API token: %w", err)
		}

		fmt.Println("API token removed")
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether an API token is stored",
	RunE: func(cmd *cobra.Command, args []string) error {
		keyring := crypto.NewKeyring()

		if !keyring.IsAvailable() {
			fmt.Println("No keyring available on this platform; set BILLDESK_API_TOKEN instead")
		}
		if _, err := keyring.GetToken(); err != nil {
			fmt.Println("No API token stored")
			return nil
		}
		fmt.Println("An API token is stored")
		return nil
	},
}

func init() {
	authCmd.AddCommand(authSetTokenCmd)
	authCmd.AddCommand(authResetCmd)
	authCmd.AddCommand(authStatusCmd)
}

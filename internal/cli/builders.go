package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ray/billdesk/internal/domain"
)

var buildersCmd = &cobra.Command{
	Use:   "builders",
	Short: "Manage builders",
	Long:  `List, add, edit, and delete the builders you invoice.`,
}

var buildersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all builders",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		force, _ := cmd.Flags().GetBool("refresh")

		builders, err := appInstance.BuilderService.List(ctx, force)
		if err != nil {
			return fmt.Errorf("failed to list builders: %w", err)
		}

		if len(builders) == 0 {
			fmt.Println("No builders found")
			return nil
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("%-36s %-28s %-28s %s",
			"ID", "Company", "Email", "Address")))
		for _, b := range builders {
			fmt.Printf("%-36s %-28s %-28s %s\n",
				b.ID,
				truncate(b.CompanyName, 28),
				truncate(b.Email, 28),
				truncate(b.Address, 40),
			)
		}

		fmt.Printf("\nTotal: %d builder(s)\n", len(builders))
		return nil
	},
}

var buildersAddCmd = &cobra.Command{
	Use:   "add [company_name]",
	Short: "Add a new builder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		email, _ := cmd.Flags().GetString("email")

		builder := domain.NewBuilder(args[0], email)
		builder.CheckPayorName, _ = cmd.Flags().GetString("payor")
		builder.AddressLine1, _ = cmd.Flags().GetString("line1")
		builder.AddressLine2, _ = cmd.Flags().GetString("line2")
		builder.City, _ = cmd.Flags().GetString("city")
		builder.State, _ = cmd.Flags().GetString("state")
		builder.Zip, _ = cmd.Flags().GetString("zip")

		created, err := appInstance.BuilderService.Create(ctx, builder)
		if err != nil {
			return fmt.Errorf("failed to create builder: %w", err)
		}

		fmt.Printf("Builder created: %s (ID: %s)\n", created.CompanyName, created.ID)
		return nil
	},
}

var buildersEditCmd = &cobra.Command{
	Use:   "edit [id_or_name]",
	Short: "Edit an existing builder",
	Long: `Edit a builder. Only the fields given as flags change; invoices
already issued keep the builder details they were created with.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id, err := resolveBuilderID(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve builder: %w", err)
		}
		builder, err := appInstance.BuilderService.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get builder: %w", err)
		}

		if cmd.Flags().Changed("name") {
			builder.CompanyName, _ = cmd.Flags().GetString("name")
		}
		if cmd.Flags().Changed("email") {
			builder.Email, _ = cmd.Flags().GetString("email")
		}
		if cmd.Flags().Changed("payor") {
			builder.CheckPayorName, _ = cmd.Flags().GetString("payor")
		}
		if cmd.Flags().Changed("line1") {
			builder.AddressLine1, _ = cmd.Flags().GetString("line1")
		}
		if cmd.Flags().Changed("line2") {
			builder.AddressLine2, _ = cmd.Flags().GetString("line2")
		}
		if cmd.Flags().Changed("city") {
			builder.City, _ = cmd.Flags().GetString("city")
		}
		if cmd.Flags().Changed("state") {
			builder.State, _ = cmd.Flags().GetString("state")
		}
		if cmd.Flags().Changed("zip") {
			builder.Zip, _ = cmd.Flags().GetString("zip")
		}

		updated, err := appInstance.BuilderService.Update(ctx, builder)
		if err != nil {
			return fmt.Errorf("failed to update builder: %w", err)
		}

		fmt.Printf("Builder updated: %s\n", updated.CompanyName)
		return nil
	},
}

var buildersDeleteCmd = &cobra.Command{
	Use:   "delete [id_or_name]",
	Short: "Delete a builder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id, err := resolveBuilderID(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve builder: %w", err)
		}

		if !confirmPrompt("This permanently deletes the builder. Continue?") {
			fmt.Println("Cancelled.")
			return nil
		}
		if err := appInstance.BuilderService.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete builder: %w", err)
		}
		fmt.Println("Builder deleted")
		return nil
	},
}

func init() {
	buildersListCmd.Flags().Bool("refresh", false, "Bypass the session cache and fetch from the remote store")

	buildersAddCmd.Flags().String("email", "", "Builder email (required)")
	buildersAddCmd.MarkFlagRequired("email")
	buildersAddCmd.Flags().String("payor", "", "Name to expect on checks, if different from the company")
	buildersAddCmd.Flags().String("line1", "", "Address line 1")
	buildersAddCmd.Flags().String("line2", "", "Address line 2")
	buildersAddCmd.Flags().String("city", "", "City")
	buildersAddCmd.Flags().String("state", "", "State")
	buildersAddCmd.Flags().String("zip", "", "ZIP code")

	buildersEditCmd.Flags().String("name", "", "New company name")
	buildersEditCmd.Flags().String("email", "", "New email")
	buildersEditCmd.Flags().String("payor", "", "New check payor name")
	buildersEditCmd.Flags().String("line1", "", "New address line 1")
	buildersEditCmd.Flags().String("line2", "", "New address line 2")
	buildersEditCmd.Flags().String("city", "", "New city")
	buildersEditCmd.Flags().String("state", "", "New state")
	buildersEditCmd.Flags().String("zip", "", "New ZIP code")

	buildersCmd.AddCommand(buildersListCmd)
	buildersCmd.AddCommand(buildersAddCmd)
	buildersCmd.AddCommand(buildersEditCmd)
	buildersCmd.AddCommand(buildersDeleteCmd)
}

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ray/billdesk/internal/domain"
	"github.com/ray/billdesk/internal/service"
)

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Manage invoices",
	Long:  `Create, list, send, and settle invoices.`,
}

var invoicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		force, _ := cmd.Flags().GetBool("refresh")
		statusFilter, _ := cmd.Flags().GetString("status")

		if statusFilter != "" && !domain.KnownStatus(domain.InvoiceStatus(statusFilter)) {
			return fmt.Errorf("unknown status %q (draft, sent, paid)", statusFilter)
		}

		invoices, err := appInstance.InvoiceService.List(ctx, force)
		if err != nil {
			return fmt.Errorf("failed to list invoices: %w", err)
		}

		shown := 0
		fmt.Println(headerStyle.Render(fmt.Sprintf("%-14s %-24s %-12s %-12s %-10s %s",
			"Number", "Builder", "Date", "Due", "Total", "Status")))
		for _, inv := range invoices {
			if statusFilter != "" && inv.Status != domain.InvoiceStatus(statusFilter) {
				continue
			}
			fmt.Printf("%-14s %-24s %-12s %-12s $%-9s %s\n",
				inv.InvoiceNumber,
				truncate(inv.BuilderName, 24),
				inv.Date.Display(),
				inv.DueDate.Display(),
				inv.Total().StringFixed(2),
				statusBadge(inv.Status),
			)
			shown++
		}

		if shown == 0 {
			fmt.Println("No invoices found")
			return nil
		}
		fmt.Printf("\nTotal: %d invoice(s)\n", shown)
		return nil
	},
}

var invoicesCreateCmd = &cobra.Command{
	Use:   "create [builder_id_or_name]",
	Short: "Create a new draft invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		builderID, err := resolveBuilderID(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve builder: %w", err)
		}

		dateStr, _ := cmd.Flags().GetString("date")
		dueStr, _ := cmd.Flags().GetString("due")
		project, _ := cmd.Flags().GetString("project")

		date, err := parseDateFlag(dateStr)
		if err != nil {
			return err
		}
		if date.IsZero() {
			date = domain.Today()
		}

		due, err := parseDateFlag(dueStr)
		if err != nil {
			return err
		}
		if due.IsZero() {
			days := appInstance.Config.Invoice.DefaultDueDays
			due = domain.Date(date.Time().AddDate(0, 0, days).Format("2006-01-02"))
		}

		inv, err := appInstance.InvoiceService.Create(ctx, builderID, date, due, project)
		if err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}

		fmt.Printf("Created draft invoice %s for %s\n", inv.InvoiceNumber, inv.BuilderName)
		return nil
	},
}

var invoicesShowCmd = &cobra.Command{
	Use:   "show [invoice_id]",
	Short: "Show one invoice with its items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		inv, err := appInstance.InvoiceService.Get(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}

		fmt.Printf("Invoice %s  %s\n", inv.InvoiceNumber, statusBadge(inv.Status))
		fmt.Printf("Billed to:  %s <%s>\n", inv.BuilderName, inv.BuilderEmail)
		fmt.Printf("Date:       %s   Due: %s\n", inv.Date.Display(), inv.DueDate.Display())
		if inv.Status == domain.InvoiceStatusPaid {
			fmt.Printf("Paid:       %s   Check #%s\n", inv.DatePaid.Display(), inv.CheckNumber)
		}
		if inv.ProjectDetails != "" {
			fmt.Printf("Project:    %s\n", inv.ProjectDetails)
		}
		if inv.PaymentLink != "" {
			fmt.Printf("Pay online: %s\n", inv.PaymentLink)
		}

		fmt.Println()
		fmt.Println(headerStyle.Render(fmt.Sprintf("%-36s %-40s %8s %10s %12s", "Item", "Description", "Qty", "Rate", "Amount")))
		for _, it := range inv.Items {
			fmt.Printf("%-36s %-40s %8s %10s %12s\n",
				it.ID,
				truncate(it.Description, 40),
				it.Quantity.String(),
				"$"+it.Rate.StringFixed(2),
				"$"+it.Amount.StringFixed(2),
			)
		}
		fmt.Println(totalStyle.Render(fmt.Sprintf("%98s", "Total: $"+inv.Total().StringFixed(2))))
		return nil
	},
}

var invoicesAddItemCmd = &cobra.Command{
	Use:   "add-item [invoice_id] [description]",
	Short: "Add a line item to a draft invoice",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		qtyStr, _ := cmd.Flags().GetString("qty")
		rateStr, _ := cmd.Flags().GetString("rate")

		qty, err := parseAmount(qtyStr)
		if err != nil {
			return err
		}
		rate, err := parseAmount(rateStr)
		if err != nil {
			return err
		}

		inv, err := appInstance.InvoiceService.AddItem(ctx, args[0], args[1], qty, rate)
		if err != nil {
			return fmt.Errorf("failed to add item: %w", err)
		}

		fmt.Printf("Added item to %s; invoice total is now $%s\n",
			inv.InvoiceNumber, inv.Total().StringFixed(2))
		return nil
	},
}

var invoicesRemoveItemCmd = &cobra.Command{
	Use:   "remove-item [invoice_id] [item_id]",
	Short: "Remove a line item from a draft invoice",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		inv, err := appInstance.InvoiceService.RemoveItem(ctx, args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to remove item: %w", err)
		}
		fmt.Printf("Removed item; invoice total is now $%s\n", inv.Total().StringFixed(2))
		return nil
	},
}

var invoicesSendCmd = &cobra.Command{
	Use:   "send [invoice_id]",
	Short: "Mark sent, render the PDF, and email it to the builder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		inv, receipt, err := appInstance.InvoiceService.Send(ctx, args[0])
		if err != nil {
			if errors.Is(err, service.ErrSentNotDelivered) {
				// Status is persisted; only delivery failed. Offer a
				// retry instead of pretending nothing happened.
				fmt.Printf("Invoice %s was saved as sent, but the email could not be delivered.\n", inv.InvoiceNumber)
				fmt.Println("Run the command again to retry delivery.")
				return err
			}
			return fmt.Errorf("failed to send invoice: %w", err)
		}

		fmt.Printf("Invoice %s sent to %s", inv.InvoiceNumber, receipt.To)
		if receipt.MessageID != "" {
			fmt.Printf(" (message %s)", receipt.MessageID)
		}
		fmt.Println()
		return nil
	},
}

var invoicesMarkPaidCmd = &cobra.Command{
	Use:   "mark-paid [invoice_id]",
	Short: "Mark an invoice paid with a payment reference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		check, _ := cmd.Flags().GetString("check")
		dateStr, _ := cmd.Flags().GetString("date")

		datePaid, err := parseDateFlag(dateStr)
		if err != nil {
			return err
		}

		inv, err := appInstance.InvoiceService.MarkPaid(ctx, args[0], check, datePaid)
		if err != nil {
			return fmt.Errorf("failed to mark paid: %w", err)
		}
		fmt.Printf("Invoice %s marked paid on %s (check #%s)\n",
			inv.InvoiceNumber, inv.DatePaid.Display(), inv.CheckNumber)
		return nil
	},
}

var invoicesSetCheckCmd = &cobra.Command{
	Use:   "set-check [invoice_id] [check_number]",
	Short: "Record a check number without changing status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		inv, err := appInstance.InvoiceService.SetCheckNumber(ctx, args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to set check number: %w", err)
		}
		fmt.Printf("Invoice %s check number set to #%s (status unchanged: %s)\n",
			inv.InvoiceNumber, inv.CheckNumber, inv.Status)
		return nil
	},
}

var invoicesPayLinkCmd = &cobra.Command{
	Use:   "pay-link [invoice_id]",
	Short: "Generate and attach a hosted payment link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		inv, err := appInstance.InvoiceService.AttachPaymentLink(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to attach payment link: %w", err)
		}
		fmt.Printf("Payment link for %s: %s\n", inv.InvoiceNumber, inv.PaymentLink)
		return nil
	},
}

var invoicesPDFCmd = &cobra.Command{
	Use:   "pdf [invoice_id]",
	Short: "Render the invoice PDF to the output directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		dir, _ := cmd.Flags().GetString("out")
		if dir == "" {
			dir = appInstance.Config.Invoice.OutputDir
		}

		path, err := appInstance.InvoiceService.WritePDF(ctx, args[0], dir)
		if err != nil {
			return fmt.Errorf("failed to write pdf: %w", err)
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

var invoicesDeleteCmd = &cobra.Command{
	Use:   "delete [invoice_id]",
	Short: "Delete an invoice permanently",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if !confirmPrompt("This permanently deletes the invoice. Continue?") {
			fmt.Println("Cancelled.")
			return nil
		}
		if err := appInstance.InvoiceService.Delete(ctx, args[0]); err != nil {
			return fmt.Errorf("failed to delete invoice: %w", err)
		}
		fmt.Println("Invoice deleted")
		return nil
	},
}

func init() {
	invoicesListCmd.Flags().Bool("refresh", false, "Bypass the session cache and fetch from the remote store")
	invoicesListCmd.Flags().String("status", "", "Filter by status (draft, sent, paid)")

	invoicesCreateCmd.Flags().String("date", "", "Invoice date (YYYY-MM-DD, default today)")
	invoicesCreateCmd.Flags().String("due", "", "Due date (YYYY-MM-DD, default date + configured due days)")
	invoicesCreateCmd.Flags().String("project", "", "Project address / details")

	invoicesAddItemCmd.Flags().String("qty", "1", "Quantity")
	invoicesAddItemCmd.Flags().String("rate", "0", "Rate per unit")

	invoicesMarkPaidCmd.Flags().String("check", "", "Check number or other payment reference")
	invoicesMarkPaidCmd.Flags().String("date", "", "Date paid (YYYY-MM-DD, default today)")

	invoicesPDFCmd.Flags().String("out", "", "Output directory (default from config)")

	invoicesCmd.AddCommand(invoicesListCmd)
	invoicesCmd.AddCommand(invoicesCreateCmd)
	invoicesCmd.AddCommand(invoicesShowCmd)
	invoicesCmd.AddCommand(invoicesAddItemCmd)
	invoicesCmd.AddCommand(invoicesRemoveItemCmd)
	invoicesCmd.AddCommand(invoicesSendCmd)
	invoicesCmd.AddCommand(invoicesMarkPaidCmd)
	invoicesCmd.AddCommand(invoicesSetCheckCmd)
	invoicesCmd.AddCommand(invoicesPayLinkCmd)
	invoicesCmd.AddCommand(invoicesPDFCmd)
	invoicesCmd.AddCommand(invoicesDeleteCmd)
}

package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/ray/billdesk/internal/domain"
)

var expensesCmd = &cobra.Command{
	Use:   "expenses",
	Short: "Track expenses",
	Long:  `Record expenses and summarize them by category or month.`,
}

var expensesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		force, _ := cmd.Flags().GetBool("refresh")

		expenses, err := appInstance.Store.Expenses.List(ctx, force)
		if err != nil {
			return fmt.Errorf("failed to list expenses: %w", err)
		}

		if len(expenses) == 0 {
			fmt.Println("No expenses found")
			return nil
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("%-36s %-12s %-24s %10s",
			"ID", "Date", "Category", "Amount")))
		for _, e := range expenses {
			fmt.Printf("%-36s %-12s %-24s %10s\n",
				e.ID,
				e.Date.Display(),
				truncate(e.Category, 24),
				"$"+e.Amount.StringFixed(2),
			)
		}

		fmt.Printf("\nTotal: %d expense(s)\n", len(expenses))
		return nil
	},
}

var expensesAddCmd = &cobra.Command{
	Use:   "add [category] [amount]",
	Short: "Record an expense",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}

		dateStr, _ := cmd.Flags().GetString("date")
		date, err := parseDateFlag(dateStr)
		if err != nil {
			return err
		}
		if date.IsZero() {
			date = domain.Today()
		}

		expense := domain.NewExpense(date, args[0], amount)
		if err := expense.Validate(); err != nil {
			return fmt.Errorf("invalid expense: %w", err)
		}

		created, err := appInstance.Store.Expenses.Add(ctx, expense)
		if err != nil {
			return fmt.Errorf("failed to record expense: %w", err)
		}

		fmt.Printf("Recorded $%s under %s on %s (ID: %s)\n",
			created.Amount.StringFixed(2), created.Category, created.Date.Display(), created.ID)
		return nil
	},
}

var expensesDeleteCmd = &cobra.Command{
	Use:   "delete [expense_id]",
	Short: "Delete an expense",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if err := appInstance.Store.Expenses.Delete(ctx, args[0]); err != nil {
			return fmt.Errorf("failed to delete expense: %w", err)
		}
		fmt.Println("Expense deleted")
		return nil
	},
}

var expensesReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize expenses by category over a date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		fromStr, _ := cmd.Flags().GetString("from")
		toStr, _ := cmd.Flags().GetString("to")

		from, err := parseDateFlag(fromStr)
		if err != nil {
			return err
		}
		to, err := parseDateFlag(toStr)
		if err != nil {
			return err
		}

		summary, err := appInstance.ReportService.GetExpenseSummary(ctx, from, to)
		if err != nil {
			return fmt.Errorf("failed to summarize expenses: %w", err)
		}

		if len(summary.ByCategory) == 0 {
			fmt.Println("No expenses in range")
			return nil
		}

		categories := make([]string, 0, len(summary.ByCategory))
		for c := range summary.ByCategory {
			categories = append(categories, c)
		}
		sort.Strings(categories)

		fmt.Println(headerStyle.Render(fmt.Sprintf("%-24s %10s", "Category", "Amount")))
		for _, c := range categories {
			fmt.Printf("%-24s %10s\n", truncate(c, 24), "$"+summary.ByCategory[c].StringFixed(2))
		}
		fmt.Println(totalStyle.Render(fmt.Sprintf("%-24s %10s", "Total", "$"+summary.Total.StringFixed(2))))
		return nil
	},
}

var expensesByMonthCmd = &cobra.Command{
	Use:   "by-month",
	Short: "Summarize expenses per month of a year",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		year, _ := cmd.Flags().GetInt("year")
		if year == 0 {
			year = time.Now().Year()
		}

		byMonth, err := appInstance.ReportService.GetExpensesByMonth(ctx, year)
		if err != nil {
			return fmt.Errorf("failed to summarize expenses: %w", err)
		}

		if len(byMonth) == 0 {
			fmt.Printf("No expenses recorded in %d\n", year)
			return nil
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("%-12s %10s", "Month", "Amount")))
		for m := time.January; m <= time.December; m++ {
			amount, ok := byMonth[m]
			if !ok {
				continue
			}
			fmt.Printf("%-12s %10s\n", m.String(), "$"+amount.StringFixed(2))
		}
		return nil
	},
}

func init() {
	expensesListCmd.Flags().Bool("refresh", false, "Bypass the session cache and fetch from the remote store")

	expensesAddCmd.Flags().String("date", "", "Expense date (YYYY-MM-DD, default today)")

	expensesReportCmd.Flags().String("from", "", "Start date (YYYY-MM-DD, inclusive)")
	expensesReportCmd.Flags().String("to", "", "End date (YYYY-MM-DD, inclusive)")

	expensesByMonthCmd.Flags().Int("year", 0, "Year to report (default current year)")

	expensesCmd.AddCommand(expensesListCmd)
	expensesCmd.AddCommand(expensesAddCmd)
	expensesCmd.AddCommand(expensesDeleteCmd)
	expensesCmd.AddCommand(expensesReportCmd)
	expensesCmd.AddCommand(expensesByMonthCmd)
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ray/billdesk/internal/domain"
)

// truncate shortens a string to maxLen with ellipsis
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// parseDateFlag validates a YYYY-MM-DD flag value; empty is allowed and
// returns the zero date
func parseDateFlag(s string) (domain.Date, error) {
	if s == "" {
		return "", nil
	}
	d := domain.Date(s)
	if !d.Valid() {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return d, nil
}

// parseAmount parses a decimal flag value
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// resolveBuilderID accepts either a builder ID or a company name and
// resolves it against the cached builder list
func resolveBuilderID(ctx context.Context, idOrName string) (string, error) {
	builders, err := appInstance.BuilderService.List(ctx, false)
	if err != nil {
		return "", err
	}

	for _, b := range builders {
		if b.ID == idOrName {
			return b.ID, nil
		}
	}
	for _, b := range builders {
		if strings.EqualFold(b.CompanyName, idOrName) {
			return b.ID, nil
		}
	}
	return "", fmt.Errorf("no builder matching %q", idOrName)
}

// confirmPrompt asks for y/N confirmation on stdin
func confirmPrompt(message string) bool {
	fmt.Printf("%s [y/N]: ", message)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

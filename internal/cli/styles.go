package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ray/billdesk/internal/domain"
)

var (
	// Colors
	primaryColor = lipgloss.Color("39")  // Blue
	mutedColor   = lipgloss.Color("241") // Gray
	successColor = lipgloss.Color("76")  // Green
	warningColor = lipgloss.Color("214") // Orange

	// Table chrome
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	totalStyle  = lipgloss.NewStyle().Bold(true)

	// Status badges
	draftStyle = lipgloss.NewStyle().Foreground(mutedColor)
	sentStyle  = lipgloss.NewStyle().Bold(true).Foreground(warningColor)
	paidStyle  = lipgloss.NewStyle().Bold(true).Foreground(successColor)
)

// statusBadge colors a status for terminal output. Keep it in the last
// column; ANSI escapes throw off printf padding.
func statusBadge(s domain.InvoiceStatus) string {
	switch s {
	case domain.InvoiceStatusDraft:
		return draftStyle.Render(string(s))
	case domain.InvoiceStatusSent:
		return sentStyle.Render(string(s))
	case domain.InvoiceStatusPaid:
		return paidStyle.Render(string(s))
	}
	return string(s)
}

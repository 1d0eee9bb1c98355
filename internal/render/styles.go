// Package render draws the ledger for the terminal using lipgloss.
package render

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	IncomeColor  = lipgloss.Color("#10b981")
	ExpenseColor = lipgloss.Color("#f43f5e")
	WarningColor = lipgloss.Color("#f59e0b")
	InfoColor    = lipgloss.Color("#6366f1")
	SubtleColor  = lipgloss.Color("#64748b")
	BorderColor  = lipgloss.Color("#334155")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(InfoColor).
			MarginBottom(1)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	IncomeStyle  = lipgloss.NewStyle().Foreground(IncomeColor)
	ExpenseStyle = lipgloss.NewStyle().Foreground(ExpenseColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	InfoStyle    = lipgloss.NewStyle().Foreground(InfoColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(SubtleColor)
	BoldStyle    = lipgloss.NewStyle().Bold(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 2)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠"
	InfoIcon    = "ℹ"
	IncomeIcon  = "↑"
	ExpenseIcon = "↓"
	RepeatIcon  = "↻"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return IncomeStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ExpenseStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// RenderBox renders content in a bordered box under title.
func RenderBox(title, content string) string {
	return BoxStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.UnsetMargins().Render(title),
		content,
	))
}

// CategoryStyle colours text with a "#rrggbb" category colour.
func CategoryStyle(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

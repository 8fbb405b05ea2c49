package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	PathStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)
)

// Operation styles
var (
	CopyStyle = lipgloss.NewStyle().
			Foreground(CopyColor).
			Bold(true)

	LinkStyle = lipgloss.NewStyle().
			Foreground(LinkColor).
			Bold(true)

	RemoveStyle = lipgloss.NewStyle().
			Foreground(RemoveColor).
			Bold(true)
)

// OperationStyle returns the style for a cp, ln or rm operation name.
func OperationStyle(op string) lipgloss.Style {
	switch op {
	case "cp":
		return CopyStyle
	case "ln":
		return LinkStyle
	case "rm":
		return RemoveStyle
	default:
		return InfoStyle
	}
}

// Indicators
var (
	SuccessIndicator = SuccessStyle.Render("✓")
	ErrorIndicator   = ErrorStyle.Render("✗")
	WarningIndicator = WarningStyle.Render("!")
	PendingIndicator = MutedStyle.Render("○")
)

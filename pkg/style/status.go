package style

import (
	"github.com/pterm/pterm"
)

// Status is the display category of an entry result or doctor check.
type Status string

const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusDryRun  Status = "dry-run"
	StatusError   Status = "error"
	StatusMissing Status = "missing"
	StatusDiffers Status = "differs"
)

// StatusStyle returns the pterm style table cells of status are drawn with.
func StatusStyle(status Status) *pterm.Style {
	switch status {
	case StatusSuccess:
		return pterm.NewStyle(pterm.FgGreen, pterm.Bold)
	case StatusError:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	case StatusDryRun:
		return pterm.NewStyle(pterm.FgCyan)
	case StatusMissing, StatusDiffers:
		return pterm.NewStyle(pterm.FgYellow)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// Indicator returns the one-character marker for status.
func Indicator(status Status) string {
	switch status {
	case StatusSuccess:
		return SuccessIndicator
	case StatusError:
		return ErrorIndicator
	case StatusMissing, StatusDiffers:
		return WarningIndicator
	default:
		return PendingIndicator
	}
}

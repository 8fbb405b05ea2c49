package style

import (
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
)

func TestStatusStyle(t *testing.T) {
	tests := []struct {
		status Status
		want   *pterm.Style
	}{
		{StatusSuccess, pterm.NewStyle(pterm.FgGreen, pterm.Bold)},
		{StatusError, pterm.NewStyle(pterm.FgRed, pterm.Bold)},
		{StatusDryRun, pterm.NewStyle(pterm.FgCyan)},
		{StatusMissing, pterm.NewStyle(pterm.FgYellow)},
		{StatusDiffers, pterm.NewStyle(pterm.FgYellow)},
		{StatusSkipped, pterm.NewStyle(pterm.FgGray)},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusStyle(tt.status))
		})
	}
}

func TestIndicator(t *testing.T) {
	assert.Equal(t, SuccessIndicator, Indicator(StatusSuccess))
	assert.Equal(t, ErrorIndicator, Indicator(StatusError))
	assert.Equal(t, WarningIndicator, Indicator(StatusDiffers))
	assert.Equal(t, PendingIndicator, Indicator(StatusSkipped))
}

func TestOperationStyle(t *testing.T) {
	assert.Equal(t, CopyStyle, OperationStyle("cp"))
	assert.Equal(t, LinkStyle, OperationStyle("ln"))
	assert.Equal(t, RemoveStyle, OperationStyle("rm"))
	assert.Equal(t, InfoStyle, OperationStyle("alias"))
}

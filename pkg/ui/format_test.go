package ui_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dots/pkg/errors"
	"github.com/arthur-debert/dots/pkg/ui"
)

func TestFormatString(t *testing.T) {
	tests := []struct {
		format   ui.Format
		expected string
	}{
		{ui.FormatAuto, "auto"},
		{ui.FormatTerminal, "term"},
		{ui.FormatText, "text"},
		{ui.FormatJSON, "json"},
		{ui.Format(999), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.format.String())
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ui.Format
		wantErr  bool
	}{
		{name: "auto", input: "auto", expected: ui.FormatAuto},
		{name: "empty is auto", input: "", expected: ui.FormatAuto},
		{name: "term", input: "term", expected: ui.FormatTerminal},
		{name: "terminal", input: "terminal", expected: ui.FormatTerminal},
		{name: "text", input: "text", expected: ui.FormatText},
		{name: "plain", input: "plain", expected: ui.FormatText},
		{name: "json", input: "json", expected: ui.FormatJSON},
		{name: "uppercase", input: "TERM", expected: ui.FormatTerminal},
		{name: "padded", input: " json ", expected: ui.FormatJSON},
		{name: "invalid", input: "xml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, err := ui.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
				assert.Contains(t, err.Error(), "unknown output format: xml")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func tempFile(t *testing.T) *os.File {
	t.Helper()
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestDetectFormat(t *testing.T) {
	t.Run("regular file is text", func(t *testing.T) {
		assert.Equal(t, ui.FormatText, ui.DetectFormat(tempFile(t)))
	})

	t.Run("NO_COLOR is text", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		assert.Equal(t, ui.FormatText, ui.DetectFormat(tempFile(t)))
	})
}

func TestResolve(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, ui.FormatText, ui.Resolve(ui.FormatAuto, &buf))
	assert.Equal(t, ui.FormatText, ui.Resolve(ui.FormatAuto, tempFile(t)))
	assert.Equal(t, ui.FormatTerminal, ui.Resolve(ui.FormatTerminal, &buf))
	assert.Equal(t, ui.FormatJSON, ui.Resolve(ui.FormatJSON, tempFile(t)))
}

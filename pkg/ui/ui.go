// Package ui renders command results, errors and messages in the terminal,
// text and JSON output formats.
package ui

import (
	"io"
	"os"

	"github.com/arthur-debert/dots/pkg/diagnostics"
	"github.com/arthur-debert/dots/pkg/errors"
	"github.com/arthur-debert/dots/pkg/ui/json"
	"github.com/arthur-debert/dots/pkg/ui/terminal"
	"github.com/arthur-debert/dots/pkg/ui/text"
)

// Renderer is implemented by every output format.
type Renderer interface {
	// RenderResult renders a *dots.Report, a *dots.DoctorReport, or
	// any other value in the format's fallback representation.
	RenderResult(result interface{}) error

	// RenderError renders err. Config diagnostics are shown with their
	// source snippets.
	RenderError(err error) error

	// RenderWarnings renders non-fatal config diagnostics. A nil
	// argument renders nothing.
	RenderWarnings(warnings *diagnostics.Error) error

	// RenderMessage renders a free-form line.
	RenderMessage(msg string) error
}

// Resolve replaces FormatAuto with the format used for output: detected
// when output is a file, text otherwise. Other formats are returned as is.
func Resolve(format Format, output io.Writer) Format {
	if format != FormatAuto {
		return format
	}
	if file, ok := output.(*os.File); ok {
		return DetectFormat(file)
	}
	return FormatText
}

// NewRenderer creates a renderer for format, resolved against output.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch Resolve(format, output) {
	case FormatTerminal:
		return terminal.New(output), nil
	case FormatText:
		return text.New(output), nil
	case FormatJSON:
		return json.New(output), nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
}

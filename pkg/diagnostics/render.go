package diagnostics

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/arthur-debert/dots/pkg/style"
)

// Code is printed in the header of every rendered diagnostic.
const Code = "dots::config"

// Theme holds the styles used by Render.
type Theme struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Gutter  lipgloss.Style
	Label   lipgloss.Style
	Help    lipgloss.Style
}

// PlainTheme renders without any escape sequences.
func PlainTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{Error: plain, Warning: plain, Gutter: plain, Label: plain, Help: plain}
}

// ColorTheme uses the application palette.
func ColorTheme() Theme {
	return Theme{
		Error:   style.ErrorStyle,
		Warning: style.WarningStyle,
		Gutter:  style.MutedStyle,
		Label:   style.ErrorStyle,
		Help:    style.InfoStyle,
	}
}

// Position is a 1-based line and column. Columns count runes.
type Position struct {
	Line   int
	Column int
}

// PositionOf converts a byte offset into a line and column of src. Offsets
// past the end are clamped.
func PositionOf(src string, offset int) Position {
	if offset > len(src) {
		offset = len(src)
	}
	if offset < 0 {
		offset = 0
	}
	line := strings.Count(src[:offset], "\n") + 1
	lineStart := strings.LastIndexByte(src[:offset], '\n') + 1
	return Position{Line: line, Column: utf8.RuneCountInString(src[lineStart:offset]) + 1}
}

// lineAt returns the text of the line containing offset and the byte offset
// the line starts at.
func lineAt(src string, offset int) (string, int) {
	if offset > len(src) {
		offset = len(src)
	}
	start := strings.LastIndexByte(src[:offset], '\n') + 1
	end := strings.IndexByte(src[start:], '\n')
	if end < 0 {
		end = len(src) - start
	}
	return strings.TrimRight(src[start:start+end], "\r"), start
}

// Render writes every diagnostic with a source snippet, a marker under each
// labelled span and the help text.
func (e *Error) Render(w io.Writer, theme Theme) error {
	for i, d := range e.Diagnostics {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, e.renderOne(d, theme)); err != nil {
			return err
		}
	}
	return nil
}

// Report renders to a string.
func (e *Error) Report(theme Theme) string {
	var b strings.Builder
	_ = e.Render(&b, theme)
	return b.String()
}

func (e *Error) renderOne(d *Diagnostic, theme Theme) string {
	var b strings.Builder

	severity, sevStyle := "error", theme.Error
	if d.IsWarning() {
		severity, sevStyle = "warning", theme.Warning
	}
	b.WriteString(sevStyle.Render(fmt.Sprintf("%s[%s]", severity, Code)))
	b.WriteString(": " + d.Message + "\n")

	labels := d.Labels()
	width := 1
	for _, l := range labels {
		n := len(strconv.Itoa(PositionOf(e.Source, l.Span.Offset).Line))
		if n > width {
			width = n
		}
	}
	pad := strings.Repeat(" ", width)
	bar := theme.Gutter.Render("|")

	for i, l := range labels {
		pos := PositionOf(e.Source, l.Span.Offset)
		arrow := "-->"
		if i > 0 {
			arrow = ":::"
		}
		name := e.Name
		if name == "" {
			name = "<input>"
		}
		fmt.Fprintf(&b, "%s%s %s:%d:%d\n", pad, theme.Gutter.Render(arrow), name, pos.Line, pos.Column)
		fmt.Fprintf(&b, "%s %s\n", pad, bar)

		text, lineStart := lineAt(e.Source, l.Span.Offset)
		fmt.Fprintf(&b, "%s %s %s\n", theme.Gutter.Render(fmt.Sprintf("%*d", width, pos.Line)), bar, text)

		startCol := utf8.RuneCountInString(text[:min(l.Span.Offset-lineStart, len(text))])
		endByte := min(l.Span.End()-lineStart, len(text))
		marks := 1
		if endByte > l.Span.Offset-lineStart {
			marks = utf8.RuneCountInString(text[l.Span.Offset-lineStart : endByte])
		}
		marker := strings.Repeat(" ", startCol) + strings.Repeat("^", max(marks, 1))
		fmt.Fprintf(&b, "%s %s %s %s\n", pad, bar, theme.Label.Render(marker), l.Text)
	}

	if d.Help != "" {
		fmt.Fprintf(&b, "%s %s\n", pad, bar)
		fmt.Fprintf(&b, "%s %s %s\n", pad, theme.Gutter.Render("="), theme.Help.Render("help: "+d.Help))
	}
	return b.String()
}

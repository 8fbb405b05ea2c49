// Package terminal renders results as colored pterm tables.
package terminal

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/dots/pkg/diagnostics"
	"github.com/arthur-debert/dots/pkg/dots"
	"github.com/arthur-debert/dots/pkg/errors"
	"github.com/arthur-debert/dots/pkg/style"
	"github.com/arthur-debert/dots/pkg/ui/table"
)

// Renderer writes styled output to a terminal.
type Renderer struct {
	output io.Writer
}

func New(w io.Writer) *Renderer {
	return &Renderer{output: w}
}

func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *dots.Report:
		title := v.Command
		if v.DryRun {
			title += style.MutedStyle.Render(" (dry run)")
		}
		return r.renderRows(style.TitleStyle.Render(title), table.FromReport(v), table.Summary(v))
	case *dots.DoctorReport:
		return r.renderRows(style.TitleStyle.Render("doctor"), table.FromDoctor(v), table.DoctorSummary(v))
	case string:
		_, err := fmt.Fprintln(r.output, v)
		return err
	default:
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

func (r *Renderer) renderRows(title string, rows []table.Row, summary string) error {
	if _, err := fmt.Fprintln(r.output, title); err != nil {
		return err
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(r.output, style.MutedStyle.Render("nothing to do"))
		return err
	}

	data := pterm.TableData{append([]string{""}, table.Header...)}
	for _, row := range rows {
		data = append(data, []string{
			style.Indicator(row.Status),
			row.Bundle,
			style.OperationStyle(row.Op).Render(row.Op),
			style.PathStyle.Render(row.Destination),
			style.StatusStyle(row.Status).Sprint(row.Result),
		})
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(r.output, "%s\n%s\n", out, style.MutedStyle.Render(summary))
	return err
}

// RenderError prints config diagnostics with their source snippets, and
// other errors on one line followed by their help detail.
func (r *Renderer) RenderError(err error) error {
	var diag *diagnostics.Error
	if stderrors.As(err, &diag) {
		if _, werr := fmt.Fprintf(r.output, "%s %s\n", style.ErrorIndicator, style.ErrorStyle.Render(err.Error())); werr != nil {
			return werr
		}
		return diag.Render(r.output, diagnostics.ColorTheme())
	}
	if _, werr := fmt.Fprintf(r.output, "%s %s\n", style.ErrorIndicator, style.ErrorStyle.Render(err.Error())); werr != nil {
		return werr
	}
	if help, ok := errors.GetErrorDetails(err)["help"].(string); ok {
		_, werr := fmt.Fprintln(r.output, style.InfoStyle.Render("help: "+help))
		return werr
	}
	return nil
}

// RenderWarnings prints non-fatal config diagnostics.
func (r *Renderer) RenderWarnings(warnings *diagnostics.Error) error {
	if warnings == nil {
		return nil
	}
	return warnings.Render(r.output, diagnostics.ColorTheme())
}

func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, style.InfoStyle.Render(msg))
	return err
}

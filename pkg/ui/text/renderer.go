// Package text renders results without escape sequences, for pipes and
// NO_COLOR terminals.
package text

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/arthur-debert/dots/pkg/diagnostics"
	"github.com/arthur-debert/dots/pkg/dots"
	"github.com/arthur-debert/dots/pkg/errors"
	"github.com/arthur-debert/dots/pkg/ui/table"
)

// Renderer writes aligned plain-text columns.
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
			title += " (dry run)"
		}
		return r.renderRows(title, table.FromReport(v), table.Summary(v))
	case *dots.DoctorReport:
		return r.renderRows("doctor", table.FromDoctor(v), table.DoctorSummary(v))
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
		_, err := fmt.Fprintln(r.output, "nothing to do")
		return err
	}
	tw := tabwriter.NewWriter(r.output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(table.Header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row.Cells(), "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(r.output, summary)
	return err
}

func (r *Renderer) RenderError(err error) error {
	if _, werr := fmt.Fprintf(r.output, "Error: %v\n", err); werr != nil {
		return werr
	}
	var diag *diagnostics.Error
	if stderrors.As(err, &diag) {
		return diag.Render(r.output, diagnostics.PlainTheme())
	}
	if help, ok := errors.GetErrorDetails(err)["help"].(string); ok {
		_, werr := fmt.Fprintf(r.output, "help: %s\n", help)
		return werr
	}
	return nil
}

func (r *Renderer) RenderWarnings(warnings *diagnostics.Error) error {
	if warnings == nil {
		return nil
	}
	return warnings.Render(r.output, diagnostics.PlainTheme())
}

func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

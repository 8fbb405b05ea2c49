// Package json provides machine-readable JSON output
package json

import (
	"encoding/json"
	stderrors "errors"
	"io"

	"github.com/arthur-debert/dots/pkg/diagnostics"
	"github.com/arthur-debert/dots/pkg/dots"
	"github.com/arthur-debert/dots/pkg/errors"
)

// Renderer encodes one indented JSON document per call.
type Renderer struct {
	encoder *json.Encoder
}

func New(output io.Writer) *Renderer {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return &Renderer{encoder: encoder}
}

type entryView struct {
	Bundle      string `json:"bundle"`
	Op          string `json:"op"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Depth       int    `json:"depth"`
	IsDir       bool   `json:"is_dir,omitempty"`
	Outcome     string `json:"outcome"`
	Result      string `json:"result"`
}

type reportView struct {
	Command string      `json:"command"`
	DryRun  bool        `json:"dry_run"`
	Entries []entryView `json:"entries"`
	Failed  int         `json:"failed"`
}

type checkView struct {
	Bundle      string `json:"bundle"`
	Op          string `json:"op"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	State       string `json:"state"`
	Detail      string `json:"detail,omitempty"`
}

type doctorView struct {
	Healthy bool        `json:"healthy"`
	Checks  []checkView `json:"checks"`
}

// RenderResult encodes reports through stable views and anything else as is.
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *dots.Report:
		view := reportView{Command: v.Command, DryRun: v.DryRun, Entries: []entryView{}, Failed: len(v.Failed())}
		for _, e := range v.Entries {
			view.Entries = append(view.Entries, entryView{
				Bundle:      e.Bundle,
				Op:          string(e.Op),
				Source:      e.Source,
				Destination: e.Destination,
				Depth:       e.Depth,
				IsDir:       e.IsDir,
				Outcome:     e.Result.Outcome().String(),
				Result:      e.Result.String(),
			})
		}
		return r.encoder.Encode(view)
	case *dots.DoctorReport:
		view := doctorView{Healthy: v.Healthy(), Checks: []checkView{}}
		for _, c := range v.Checks {
			view.Checks = append(view.Checks, checkView{
				Bundle:      c.Bundle,
				Op:          string(c.Op),
				Source:      c.Source,
				Destination: c.Destination,
				State:       string(c.State),
				Detail:      c.Detail,
			})
		}
		return r.encoder.Encode(view)
	default:
		return r.encoder.Encode(result)
	}
}

// RenderError encodes the message, the error code and, for config errors,
// the flattened diagnostics.
func (r *Renderer) RenderError(err error) error {
	obj := map[string]interface{}{
		"error": err.Error(),
		"code":  string(errors.GetErrorCode(err)),
	}
	if details := errors.GetErrorDetails(err); len(details) > 0 {
		obj["details"] = details
	}
	var diag *diagnostics.Error
	if stderrors.As(err, &diag) {
		obj["diagnostics"] = diag.JSONable()
	}
	return r.encoder.Encode(obj)
}

func (r *Renderer) RenderWarnings(warnings *diagnostics.Error) error {
	if warnings == nil {
		return nil
	}
	return r.encoder.Encode(map[string]interface{}{"warnings": warnings.JSONable()})
}

func (r *Renderer) RenderMessage(msg string) error {
	return r.encoder.Encode(map[string]string{"message": msg})
}

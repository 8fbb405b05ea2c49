// Package table flattens pipeline reports into display rows shared by the
// terminal and text renderers.
package table

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/dots/pkg/dots"
	"github.com/arthur-debert/dots/pkg/fileops"
	"github.com/arthur-debert/dots/pkg/style"
)

// Row is one displayed entry.
type Row struct {
	Bundle      string
	Op          string
	Destination string
	Result      string
	Status      style.Status
}

// Header names the Row columns in order.
var Header = []string{"Bundle", "Op", "Destination", "Result"}

// Cells returns the row as strings in Header order.
func (r Row) Cells() []string {
	return []string{r.Bundle, r.Op, r.Destination, r.Result}
}

// StatusOf maps an executor outcome to its display status.
func StatusOf(o fileops.Outcome) style.Status {
	switch o {
	case fileops.OutcomeDone:
		return style.StatusSuccess
	case fileops.OutcomeSkipped:
		return style.StatusSkipped
	case fileops.OutcomeDryRun:
		return style.StatusDryRun
	default:
		return style.StatusError
	}
}

// StatusOfState maps a doctor state to its display status.
func StatusOfState(s dots.State) style.Status {
	switch s {
	case dots.StateOK:
		return style.StatusSuccess
	case dots.StateMissing:
		return style.StatusMissing
	case dots.StateDiffers:
		return style.StatusDiffers
	default:
		return style.StatusError
	}
}

// FromReport lists file entries of r. Directory entries are left out unless
// they failed.
func FromReport(r *dots.Report) []Row {
	rows := make([]Row, 0, len(r.Entries))
	for _, e := range r.Entries {
		if e.IsDir && e.Result.Failed() == nil {
			continue
		}
		rows = append(rows, Row{
			Bundle:      e.Bundle,
			Op:          string(e.Op),
			Destination: e.Destination,
			Result:      e.Result.String(),
			Status:      StatusOf(e.Result.Outcome()),
		})
	}
	return rows
}

// FromDoctor lists every check of r.
func FromDoctor(r *dots.DoctorReport) []Row {
	rows := make([]Row, 0, len(r.Checks))
	for _, c := range r.Checks {
		result := string(c.State)
		if c.Detail != "" {
			result += ": " + c.Detail
		}
		rows = append(rows, Row{
			Bundle:      c.Bundle,
			Op:          string(c.Op),
			Destination: c.Destination,
			Result:      result,
			Status:      StatusOfState(c.State),
		})
	}
	return rows
}

// Summary is the one-line tally printed under a report.
func Summary(r *dots.Report) string {
	var parts []string
	for _, o := range []fileops.Outcome{fileops.OutcomeDone, fileops.OutcomeSkipped, fileops.OutcomeDryRun, fileops.OutcomeFailed} {
		if n := r.Count(o); n > 0 || o == fileops.OutcomeFailed {
			parts = append(parts, fmt.Sprintf("%d %s", n, o))
		}
	}
	return r.Command + ": " + strings.Join(parts, ", ")
}

// DoctorSummary is the one-line tally printed under a doctor report.
func DoctorSummary(r *dots.DoctorReport) string {
	var parts []string
	for _, s := range []dots.State{dots.StateOK, dots.StateMissing, dots.StateDiffers, dots.StateError} {
		if n := r.Count(s); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, s))
		}
	}
	if len(parts) == 0 {
		return "doctor: nothing to check"
	}
	return "doctor: " + strings.Join(parts, ", ")
}

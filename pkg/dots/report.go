package dots

import (
	"github.com/arthur-debert/dots/pkg/fileops"
)

// Operation names a file action as recorded in reports.
type Operation string

const (
	OpCopy   Operation = "cp"
	OpLink   Operation = "ln"
	OpRemove Operation = "rm"
)

// EntryResult is the outcome of one walked entry.
type EntryResult struct {
	Bundle      string
	Op          Operation
	Source      string
	Destination string
	Depth       int
	IsDir       bool
	Result      fileops.Result
}

// Report collects the per-entry outcomes of Install or Uninstall.
type Report struct {
	Command string
	DryRun  bool
	Entries []EntryResult
}

// Count returns how many entries ended with outcome.
func (r *Report) Count(outcome fileops.Outcome) int {
	n := 0
	for _, e := range r.Entries {
		if e.Result.Outcome() == outcome {
			n++
		}
	}
	return n
}

// Failed returns the entries whose operation failed.
func (r *Report) Failed() []EntryResult {
	var out []EntryResult
	for _, e := range r.Entries {
		if e.Result.Failed() != nil {
			out = append(out, e)
		}
	}
	return out
}

// HasFailures reports whether any entry failed.
func (r *Report) HasFailures() bool {
	return len(r.Failed()) > 0
}

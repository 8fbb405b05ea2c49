package fileops

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/arthur-debert/dots/pkg/filesystem"
)

// RemoveKind enumerates remove outcomes.
type RemoveKind int

const (
	Removed RemoveKind = iota
	RemoveSkippedNotFound
	RemoveDryRun
	RemoveError
)

// RemoveResult is the outcome of RemoveOp.Apply.
type RemoveResult struct {
	Kind RemoveKind
	Err  error
}

func (r RemoveResult) String() string {
	switch r.Kind {
	case Removed:
		return "removed"
	case RemoveSkippedNotFound:
		return "skipped non-existing file"
	case RemoveDryRun:
		return "dry run, no action taken"
	default:
		return fmt.Sprintf("error: %v", r.Err)
	}
}

// Outcome implements Result.
func (r RemoveResult) Outcome() Outcome {
	switch r.Kind {
	case RemoveSkippedNotFound:
		return OutcomeSkipped
	case RemoveDryRun:
		return OutcomeDryRun
	case RemoveError:
		return OutcomeFailed
	default:
		return OutcomeDone
	}
}

// Failed implements Result.
func (r RemoveResult) Failed() error {
	if r.Kind == RemoveError {
		return r.Err
	}
	return nil
}

// RemoveOp deletes destinations. A missing destination is not an error.
type RemoveOp struct {
	FS     filesystem.FS
	DryRun bool
}

// Apply removes item.Destination, recursively when it is a directory.
func (op RemoveOp) Apply(item Item) RemoveResult {
	if op.DryRun {
		logger().Trace().Str("path", item.Destination).Msg("Dry run remove")
		return RemoveResult{Kind: RemoveDryRun}
	}
	fsys := resolveFS(op.FS)

	info, err := fsys.Lstat(item.Destination)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return RemoveResult{Kind: RemoveSkippedNotFound}
	case err != nil:
		return RemoveResult{Kind: RemoveError, Err: err}
	}

	if info.IsDir() {
		err = fsys.RemoveAll(item.Destination)
	} else {
		err = fsys.Remove(item.Destination)
	}
	if err != nil {
		return RemoveResult{Kind: RemoveError, Err: err}
	}
	return RemoveResult{Kind: Removed}
}

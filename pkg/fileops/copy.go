package fileops

import (
	"fmt"

	"github.com/arthur-debert/dots/pkg/filesystem"
)

// CopyKind enumerates copy outcomes.
type CopyKind int

const (
	Copied CopyKind = iota
	CopiedForced
	CopySkippedExisting
	CopyDryRun
	CopyError
)

// CopyResult is the outcome of CopyOp.Apply. Bytes is set for Copied and
// CopiedForced, Err for CopyError.
type CopyResult struct {
	Kind  CopyKind
	Bytes int64
	Err   error
}

func (r CopyResult) String() string {
	switch r.Kind {
	case Copied:
		return fmt.Sprintf("copied %d bytes", r.Bytes)
	case CopiedForced:
		return fmt.Sprintf("copied %d bytes (forced)", r.Bytes)
	case CopySkippedExisting:
		return "skipped existing file"
	case CopyDryRun:
		return "dry run, no action taken"
	default:
		return fmt.Sprintf("error: %v", r.Err)
	}
}

// Outcome implements Result.
func (r CopyResult) Outcome() Outcome {
	switch r.Kind {
	case CopySkippedExisting:
		return OutcomeSkipped
	case CopyDryRun:
		return OutcomeDryRun
	case CopyError:
		return OutcomeFailed
	default:
		return OutcomeDone
	}
}

// Failed implements Result.
func (r CopyResult) Failed() error {
	if r.Kind == CopyError {
		return r.Err
	}
	return nil
}

// CopyOp copies files byte for byte. Directories are created, never copied.
type CopyOp struct {
	FS     filesystem.FS
	DryRun bool
	// Force replaces existing destinations instead of skipping them.
	Force bool
}

// Apply copies item.Source to item.Destination, or ensures the destination
// directory exists when item is a directory.
func (op CopyOp) Apply(item Item) CopyResult {
	if op.DryRun {
		logger().Trace().Str("src", item.Source).Str("dst", item.Destination).Msg("Dry run copy")
		return CopyResult{Kind: CopyDryRun}
	}
	fsys := resolveFS(op.FS)

	if item.IsDir {
		if err := fsys.MkdirAll(item.Destination, dirPerm); err != nil {
			return CopyResult{Kind: CopyError, Err: err}
		}
		logger().Trace().Str("dst", item.Destination).Msg("Ensured directory exists")
		return CopyResult{Kind: Copied}
	}

	forced, skip, err := prepare(fsys, item.Destination, op.Force)
	switch {
	case err != nil:
		return CopyResult{Kind: CopyError, Err: err}
	case skip:
		return CopyResult{Kind: CopySkippedExisting}
	}

	n, err := copyFile(fsys, item.Source, item.Destination)
	if err != nil {
		return CopyResult{Kind: CopyError, Err: err}
	}
	if forced {
		return CopyResult{Kind: CopiedForced, Bytes: n}
	}
	return CopyResult{Kind: Copied, Bytes: n}
}

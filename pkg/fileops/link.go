package fileops

import (
	"fmt"

	"github.com/arthur-debert/dots/pkg/filesystem"
)

// LinkKind enumerates link outcomes.
type LinkKind int

const (
	Linked LinkKind = iota
	LinkSkippedExisting
	LinkDryRun
	LinkError
)

// LinkResult is the outcome of LinkOp.Apply. For Linked, Symlink and
// Hardlink tell which link was made; both are false when a directory was
// ensured.
type LinkResult struct {
	Kind     LinkKind
	Symlink  bool
	Hardlink bool
	Err      error
}

func (r LinkResult) String() string {
	switch r.Kind {
	case Linked:
		switch {
		case r.Symlink:
			return "symlinked"
		case r.Hardlink:
			return "hardlinked"
		default:
			return "directory ensured"
		}
	case LinkSkippedExisting:
		return "skipped existing file"
	case LinkDryRun:
		return "dry run, no action taken"
	default:
		return fmt.Sprintf("error: %v", r.Err)
	}
}

// Outcome implements Result.
func (r LinkResult) Outcome() Outcome {
	switch r.Kind {
	case LinkSkippedExisting:
		return OutcomeSkipped
	case LinkDryRun:
		return OutcomeDryRun
	case LinkError:
		return OutcomeFailed
	default:
		return OutcomeDone
	}
}

// Failed implements Result.
func (r LinkResult) Failed() error {
	if r.Kind == LinkError {
		return r.Err
	}
	return nil
}

// LinkOp links destinations to sources. Only leaf entries are linked;
// directories are created.
type LinkOp struct {
	FS     filesystem.FS
	DryRun bool
	Force  bool
	// Hard makes hard links instead of symbolic ones.
	Hard bool
}

// Apply links item.Destination to item.Source, or ensures the destination
// directory exists when item is a directory.
func (op LinkOp) Apply(item Item) LinkResult {
	if op.DryRun {
		logger().Trace().Str("src", item.Source).Str("dst", item.Destination).Msg("Dry run link")
		return LinkResult{Kind: LinkDryRun}
	}
	fsys := resolveFS(op.FS)

	if item.IsDir {
		if err := fsys.MkdirAll(item.Destination, dirPerm); err != nil {
			return LinkResult{Kind: LinkError, Err: err}
		}
		return LinkResult{Kind: Linked}
	}

	_, skip, err := prepare(fsys, item.Destination, op.Force)
	switch {
	case err != nil:
		return LinkResult{Kind: LinkError, Err: err}
	case skip:
		return LinkResult{Kind: LinkSkippedExisting}
	}

	if op.Hard {
		err = fsys.Link(item.Source, item.Destination)
	} else {
		err = fsys.Symlink(item.Source, item.Destination)
	}
	if err != nil {
		return LinkResult{Kind: LinkError, Err: err}
	}
	return LinkResult{Kind: Linked, Symlink: !op.Hard, Hardlink: op.Hard}
}

package dots

import (
	"bytes"
	stderrors "errors"
	"io/fs"

	"github.com/spf13/afero"

	"github.com/arthur-debert/dots/pkg/walker"
)

// State describes an installed destination relative to its source.
type State string

const (
	// StateMissing: nothing exists at the destination.
	StateMissing State = "missing"
	// StateOK: the destination is what install would produce.
	StateOK State = "ok"
	// StateDiffers: the destination exists with other content or another
	// link target.
	StateDiffers State = "differs"
	// StateError: the destination could not be inspected.
	StateError State = "error"
)

// Check is the doctor verdict for one file entry.
type Check struct {
	Bundle      string
	Op          Operation
	Source      string
	Destination string
	State       State
	Detail      string
}

// DoctorReport lists a Check per file entry of the selected bundles.
type DoctorReport struct {
	Checks []Check
}

// Healthy reports whether every check is StateOK.
func (r *DoctorReport) Healthy() bool {
	for _, c := range r.Checks {
		if c.State != StateOK {
			return false
		}
	}
	return true
}

// Count returns how many checks ended in state.
func (r *DoctorReport) Count(state State) int {
	n := 0
	for _, c := range r.Checks {
		if c.State == state {
			n++
		}
	}
	return n
}

// Doctor inspects every file a cp or ln entry would install without
// modifying anything.
func (d *Dots) Doctor() (*DoctorReport, error) {
	report := &DoctorReport{}
	err := d.newWalker("").Walk(func(e walker.Entry[rootTag]) error {
		if e.IsDir {
			return nil
		}
		state, detail := d.inspect(e)
		report.Checks = append(report.Checks, Check{
			Bundle:      e.Tag.Bundle,
			Op:          e.Tag.Op,
			Source:      e.Path,
			Destination: e.Destination,
			State:       state,
			Detail:      detail,
		})
		d.logger.Debug().
			Str("bundle", e.Tag.Bundle).
			Str("dst", e.Destination).
			Str("state", string(state)).
			Msg("checked")
		return nil
	})
	return report, err
}

func (d *Dots) inspect(e walker.Entry[rootTag]) (State, string) {
	info, err := d.fs.Lstat(e.Destination)
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		return StateMissing, ""
	case err != nil:
		return StateError, err.Error()
	}

	if e.Tag.Op == OpLink && !e.Tag.Hard {
		if info.Mode()&fs.ModeSymlink == 0 {
			return StateDiffers, "not a symlink"
		}
		target, err := d.fs.Readlink(e.Destination)
		if err != nil {
			return StateError, err.Error()
		}
		if target != e.Path {
			return StateDiffers, "points to " + target
		}
		return StateOK, ""
	}

	if info.Mode()&fs.ModeSymlink != 0 {
		return StateDiffers, "is a symlink"
	}
	same, err := sameContent(d.fs, e.Path, e.Destination)
	if err != nil {
		return StateError, err.Error()
	}
	if !same {
		return StateDiffers, "content differs"
	}
	return StateOK, ""
}

func sameContent(fsys afero.Fs, a, b string) (bool, error) {
	left, err := afero.ReadFile(fsys, a)
	if err != nil {
		return false, err
	}
	right, err := afero.ReadFile(fsys, b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(left, right), nil
}

// Package fileops applies copy, link and remove operations to single
// filesystem entries. Operations never return errors: every outcome,
// including failures, is reported as a result value so callers can log it
// and move on to the next entry.
package fileops

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/dots/pkg/filesystem"
	"github.com/arthur-debert/dots/pkg/logging"
)

// Item is one entry to operate on.
type Item struct {
	Source      string
	Destination string
	IsDir       bool
}

// Outcome groups results across operations for summaries.
type Outcome int

const (
	OutcomeDone Outcome = iota
	OutcomeSkipped
	OutcomeDryRun
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDone:
		return "done"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeDryRun:
		return "dry-run"
	default:
		return "failed"
	}
}

// Result is the common view of CopyResult, LinkResult and RemoveResult.
type Result interface {
	fmt.Stringer
	// Failed returns the I/O error of an error result, nil otherwise.
	Failed() error
	Outcome() Outcome
}

const dirPerm = 0755

func resolveFS(fsys filesystem.FS) filesystem.FS {
	if fsys == nil {
		return filesystem.NewOS()
	}
	return fsys
}

func logger() *zerolog.Logger {
	l := logging.GetLogger("fileops")
	return &l
}

// lexists reports whether path exists without following a final symlink,
// so dangling links count as existing.
func lexists(fsys filesystem.FS, path string) (bool, error) {
	_, err := fsys.Lstat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// prepare applies the exists/force policy shared by copy and link. It
// returns whether an existing destination was replaced, or skip when the
// destination must be left alone.
func prepare(fsys filesystem.FS, dst string, force bool) (forced, skip bool, err error) {
	exists, err := lexists(fsys, dst)
	if err != nil {
		return false, false, err
	}
	if exists {
		if !force {
			return false, true, nil
		}
		if err := removeExisting(fsys, dst); err != nil {
			return false, false, err
		}
		forced = true
	}
	if err := fsys.MkdirAll(filepath.Dir(dst), dirPerm); err != nil {
		return false, false, err
	}
	return forced, false, nil
}

// removeExisting deletes dst. Directories are removed with their contents;
// links are removed themselves and never followed.
func removeExisting(fsys filesystem.FS, dst string) error {
	info, err := fsys.Lstat(dst)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fsys.RemoveAll(dst)
	}
	return fsys.Remove(dst)
}

func copyFile(fsys filesystem.FS, src, dst string) (int64, error) {
	in, err := fsys.Open(src)
	if err != nil {
		return 0, err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return 0, err
	}
	out, err := fsys.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return n, err
}

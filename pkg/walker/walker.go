package walker

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/arthur-debert/dots/pkg/logging"
)

// Walker visits every registered root in registration order, in lexical
// order within each root.
type Walker[T any] struct {
	fs      afero.Fs
	planner Planner[T]
	ignore  []string
	logger  zerolog.Logger
}

// Option configures a Walker.
type Option func(*options)

type options struct {
	ignore []string
}

// WithIgnore skips entries whose base name matches any of the glob patterns.
// Ignored directories are not descended into. Roots are never ignored.
func WithIgnore(patterns ...string) Option {
	return func(o *options) { o.ignore = append(o.ignore, patterns...) }
}

// New returns a walker over fsys with no roots.
func New[T any](fsys afero.Fs, opts ...Option) *Walker[T] {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return &Walker[T]{
		fs:     fsys,
		ignore: o.ignore,
		logger: logging.GetLogger("walker"),
	}
}

// Add registers a source root and the destination it maps to.
func (w *Walker[T]) Add(source, destination string, tag T) *Walker[T] {
	w.planner.Add(source, destination, tag)
	return w
}

// Len returns the number of registered roots.
func (w *Walker[T]) Len() int {
	return w.planner.Len()
}

// SkipDir can be returned by a visit function to skip the rest of a
// directory.
var SkipDir = filepath.SkipDir

// Walk calls visit for every directory and file under every root. Entries
// that cannot be read are logged and skipped. The walk stops early only
// when visit returns an error other than SkipDir, and that error is
// returned. A Walker can be walked again; every walk starts at the first
// root.
func (w *Walker[T]) Walk(visit func(Entry[T]) error) error {
	w.planner.Reset()
	for _, root := range w.planner.Roots() {
		err := afero.Walk(w.fs, root.Source, func(path string, info fs.FileInfo, err error) error {
			depth := depthOf(root.Source, path)
			if err != nil {
				w.logger.Error().Err(err).Str("path", path).Msg("Error reading directory entry")
				if depth == 0 && info == nil {
					// The root itself could not be read; keep the cursor
					// in step with the registered roots.
					w.planner.Advance()
				}
				if info != nil && info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if depth > 0 && w.ignored(info.Name()) {
				w.logger.Trace().Str("path", path).Msg("Ignored")
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			entry, ok := w.planner.Plan(path, depth)
			if !ok {
				w.logger.Debug().Str("path", path).Msg("Entry outside of any source root")
				return nil
			}
			entry.IsDir = info.IsDir()
			entry.Mode = info.Mode()

			if err := visit(entry); err != nil {
				if errors.Is(err, filepath.SkipDir) && !entry.IsDir {
					return nil
				}
				return err
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *Walker[T]) ignored(name string) bool {
	for _, pattern := range w.ignore {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// depthOf counts the path components of path below root.
func depthOf(root, path string) int {
	rel, ok := stripPrefix(filepath.Clean(path), filepath.Clean(root))
	if !ok || rel == "" {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

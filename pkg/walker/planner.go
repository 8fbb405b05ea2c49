// Package walker traverses several source trees as one sequence and maps
// every visited entry to its destination.
package walker

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Root is a registered source tree: everything under Source is mapped to
// the same relative path under Destination and carries Tag.
type Root[T any] struct {
	Source      string
	Destination string
	Tag         T
}

// Entry is one visited path with its destination.
type Entry[T any] struct {
	Path        string
	Destination string
	// Depth is 0 for a root itself.
	Depth int
	IsDir bool
	Mode  fs.FileMode
	Tag   T
}

// Planner maps visited paths to destinations. Roots must be visited in the
// order they were added, each one completely before the next: the planner
// only tracks which root is current and moves to the next one whenever it
// sees depth 0.
//
// A Planner is not safe for concurrent use.
type Planner[T any] struct {
	roots   []Root[T]
	current int
}

// Add registers a root.
func (p *Planner[T]) Add(source, destination string, tag T) {
	p.roots = append(p.roots, Root[T]{
		Source:      filepath.Clean(source),
		Destination: filepath.Clean(destination),
		Tag:         tag,
	})
}

// Roots returns the registered roots in order.
func (p *Planner[T]) Roots() []Root[T] {
	return p.roots
}

// Len returns the number of registered roots.
func (p *Planner[T]) Len() int {
	return len(p.roots)
}

// Advance moves to the next root. It never moves past the last one.
func (p *Planner[T]) Advance() {
	if p.current < len(p.roots) {
		p.current++
	}
}

// Reset rewinds the planner so the next depth-0 path maps to the first root.
func (p *Planner[T]) Reset() {
	p.current = 0
}

// Plan maps path, visited at depth below the current root, to its
// destination. A depth of 0 first advances to the next root. It reports
// false when no root is current or path is not inside the current root.
func (p *Planner[T]) Plan(path string, depth int) (Entry[T], bool) {
	if depth == 0 {
		p.Advance()
	}
	if p.current == 0 {
		return Entry[T]{}, false
	}
	root := p.roots[p.current-1]

	rel, ok := stripPrefix(filepath.Clean(path), root.Source)
	if !ok {
		return Entry[T]{}, false
	}
	dest := root.Destination
	if rel != "" {
		dest = filepath.Join(root.Destination, rel)
	}
	return Entry[T]{Path: path, Destination: dest, Depth: depth, Tag: root.Tag}, true
}

// stripPrefix returns path relative to prefix, component-wise.
func stripPrefix(path, prefix string) (string, bool) {
	if path == prefix {
		return "", true
	}
	sep := string(filepath.Separator)
	if !strings.HasSuffix(prefix, sep) {
		prefix += sep
	}
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}
	return path[len(prefix):], true
}

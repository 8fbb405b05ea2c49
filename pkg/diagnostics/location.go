// Package diagnostics describes problems found in a dotfiles document. Every
// diagnostic is anchored to a byte range of the document text so it can be
// rendered with a source snippet or serialized for structured logs.
package diagnostics

import (
	"fmt"

	"github.com/arthur-debert/dots/pkg/kdl"
)

// Span is a (byte offset, length) range of the document text.
type Span = kdl.Span

// LocationKind tags what a Location points at.
type LocationKind int

const (
	AtDocument LocationKind = iota
	AtNode
	AtArgument
	AtProperty
)

// Location is a place in a document. For properties, Key and Value address
// the two halves of `key=value` inside Entry. For arguments Value equals
// Entry, and for documents and nodes all three are the same span.
type Location struct {
	Kind  LocationKind
	Entry Span
	Key   Span
	Value Span
}

// DocumentLocation points at a whole document or children block.
func DocumentLocation(doc *kdl.Document) Location {
	return Location{Kind: AtDocument, Entry: doc.Span, Key: doc.Span, Value: doc.Span}
}

// NodeLocation points at a node.
func NodeLocation(n *kdl.Node) Location {
	return Location{Kind: AtNode, Entry: n.Span, Key: n.Span, Value: n.Span}
}

// EntryLocation points at an argument or property entry.
func EntryLocation(e *kdl.Entry) Location {
	if e.IsProperty() {
		return PropertyLocation(e.Span, e.Name.Span)
	}
	return Location{Kind: AtArgument, Entry: e.Span, Key: e.Span, Value: e.Span}
}

// PropertyLocation derives the value span of a `key=value` entry from the
// entry and key spans: the value starts one byte after the key, past the '='.
func PropertyLocation(entry, key Span) Location {
	value := Span{
		Offset: entry.Offset + key.Length + 1,
		Length: entry.Length - key.Length - 1,
	}
	return Location{Kind: AtProperty, Entry: entry, Key: key, Value: value}
}

// Span returns the whole entry span.
func (l Location) Span() Span { return l.Entry }

// At names the location kind for messages.
func (l Location) At() string {
	switch l.Kind {
	case AtDocument:
		return "document"
	case AtNode:
		return "node"
	case AtArgument:
		return "argument"
	case AtProperty:
		return "property"
	default:
		return "unknown"
	}
}

// AtValue names the value at the location for messages.
func (l Location) AtValue() string {
	switch l.Kind {
	case AtArgument:
		return "argument value"
	case AtProperty:
		return "property value"
	default:
		return l.At()
	}
}

// Validate checks the containment invariants of the sub-spans.
func (l Location) Validate() error {
	if l.Value.Length < 0 || l.Key.Length < 0 {
		return fmt.Errorf("negative span length in %s location", l.At())
	}
	if !l.Entry.Contains(l.Value) {
		return fmt.Errorf("value span %s is outside entry span %s", l.Value, l.Entry)
	}
	if l.Kind != AtProperty {
		return nil
	}
	if !l.Entry.Contains(l.Key) {
		return fmt.Errorf("key span %s is outside entry span %s", l.Key, l.Entry)
	}
	if l.Key.End() > l.Value.Offset {
		return fmt.Errorf("key span %s does not precede value span %s", l.Key, l.Value)
	}
	return nil
}

package kdl

import (
	"fmt"
	"strconv"
)

// Span is a byte range into the source text a document was parsed from.
type Span struct {
	Offset int
	Length int
}

// End returns the exclusive end offset of the span.
func (s Span) End() int {
	return s.Offset + s.Length
}

// Contains reports whether other lies entirely inside s.
func (s Span) Contains(other Span) bool {
	return other.Offset >= s.Offset && other.End() <= s.End()
}

// String renders the span the way diagnostics serialize it: "offset:+length".
func (s Span) String() string {
	return fmt.Sprintf("%d:+%d", s.Offset, s.Length)
}

// between returns the span covering [start, end).
func between(start, end int) Span {
	if end < start {
		end = start
	}
	return Span{Offset: start, Length: end - start}
}

// Document is an ordered list of nodes, either the top level of a file or the
// children block of a node.
type Document struct {
	Nodes []*Node
	Span  Span
}

// NodesNamed returns the nodes of the document with the given name, in order.
func (d *Document) NodesNamed(name string) []*Node {
	if d == nil {
		return nil
	}
	var out []*Node
	for _, n := range d.Nodes {
		if n.Name.Value == name {
			out = append(out, n)
		}
	}
	return out
}

// Identifier is a node name, property key or type annotation.
type Identifier struct {
	Value string
	Span  Span
}

// Node is a single KDL node: an optional type annotation, a name, a list of
// entries (arguments and properties) and an optional children block.
type Node struct {
	Type     *Identifier
	Name     Identifier
	Entries  []*Entry
	Children *Document
	Span     Span
}

// Arguments returns the positional (unnamed) entries of the node.
func (n *Node) Arguments() []*Entry {
	var out []*Entry
	for _, e := range n.Entries {
		if !e.IsProperty() {
			out = append(out, e)
		}
	}
	return out
}

// Argument returns the i-th positional entry, skipping properties.
func (n *Node) Argument(i int) (*Entry, bool) {
	args := n.Arguments()
	if i < 0 || i >= len(args) {
		return nil, false
	}
	return args[i], true
}

// Property returns the property entry with the given key. When a key is
// repeated the last occurrence wins.
func (n *Node) Property(key string) (*Entry, bool) {
	var found *Entry
	for _, e := range n.Entries {
		if e.IsProperty() && e.Name.Value == key {
			found = e
		}
	}
	return found, found != nil
}

// EntryAt returns the i-th entry regardless of whether it is an argument or a
// property.
func (n *Node) EntryAt(i int) (*Entry, bool) {
	if i < 0 || i >= len(n.Entries) {
		return nil, false
	}
	return n.Entries[i], true
}

// ChildNodes returns the nodes of the children block, or nil when the node
// has none.
func (n *Node) ChildNodes() []*Node {
	if n.Children == nil {
		return nil
	}
	return n.Children.Nodes
}

// Entry is an argument (Name == nil) or a property (Name != nil).
//
// The span of a property starts at the first byte of its key and ends at the
// last byte of its value, with the '=' directly between them.
type Entry struct {
	Name  *Identifier
	Type  *Identifier
	Value Value
	Span  Span
}

// IsProperty reports whether the entry is a key=value property.
func (e *Entry) IsProperty() bool {
	return e.Name != nil
}

// ValueKind enumerates the KDL value types.
type ValueKind int

const (
	KindString ValueKind = iota
	KindInt
	KindFloat
	KindBool
	KindNull
)

// String returns the name used in "invalid type" messages.
func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	default:
		return "unknown"
	}
}

// Value is a decoded KDL value. Raw holds the literal source text.
type Value struct {
	Kind  ValueKind
	Str   string
	Int   int64
	Float float64
	Bool  bool
	Raw   string
}

// String renders the value for messages.
func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return "null"
	}
}

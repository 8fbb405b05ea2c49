package config

import (
	"github.com/arthur-debert/dots/pkg/diagnostics"
	"github.com/arthur-debert/dots/pkg/kdl"
)

// The helpers below read typed values out of the document tree. Each failure
// is returned as a *diagnostics.Diagnostic pointing at the offending span.

// requiredNode returns the only node called name in doc.
func requiredNode(doc *kdl.Document, name string) (*kdl.Node, error) {
	var found *kdl.Node
	for _, n := range doc.Nodes {
		if n.Name.Value != name {
			continue
		}
		if found != nil {
			return nil, diagnostics.Newf(diagnostics.NodeLocation(n), "node '%s' can only be specified once", name)
		}
		found = n
	}
	if found == nil {
		return nil, diagnostics.Newf(diagnostics.DocumentLocation(doc), "node '%s' is required", name)
	}
	return found, nil
}

// entryAt returns the index-th entry of node, argument or property.
func entryAt(node *kdl.Node, index int) (*kdl.Entry, error) {
	e, ok := node.EntryAt(index)
	if !ok {
		return nil, diagnostics.Newf(diagnostics.NodeLocation(node),
			"node '%s' requires an entry at index '%d'", node.Name.Value, index)
	}
	return e, nil
}

// argAt returns the index-th entry of node, which must be an argument.
func argAt(node *kdl.Node, index int) (*kdl.Entry, error) {
	e, ok := node.EntryAt(index)
	if !ok {
		return nil, diagnostics.Newf(diagnostics.NodeLocation(node),
			"node '%s' requires argument at index '%d'", node.Name.Value, index)
	}
	if e.IsProperty() {
		return nil, diagnostics.Newf(diagnostics.EntryLocation(e),
			"node entry index '%d' must be an argument, not a property", index).At(e.Span)
	}
	return e, nil
}

// propAt returns the index-th entry of node, which must be a property.
func propAt(node *kdl.Node, index int) (*kdl.Entry, error) {
	e, ok := node.EntryAt(index)
	if !ok {
		return nil, diagnostics.Newf(diagnostics.NodeLocation(node),
			"node '%s' requires property at index '%d'", node.Name.Value, index)
	}
	if !e.IsProperty() {
		return nil, diagnostics.Newf(diagnostics.EntryLocation(e),
			"node entry index '%d' must be a property, not an argument", index)
	}
	return e, nil
}

// arg returns the index-th positional argument of node, skipping properties.
func arg(node *kdl.Node, index int) (*kdl.Entry, error) {
	e, ok := node.Argument(index)
	if !ok {
		return nil, diagnostics.Newf(diagnostics.NodeLocation(node),
			"node '%s' requires argument '%d'", node.Name.Value, index+1)
	}
	return e, nil
}

// prop returns the property of node named key.
func prop(node *kdl.Node, key string) (*kdl.Entry, error) {
	e, ok := node.Property(key)
	if !ok {
		return nil, diagnostics.Newf(diagnostics.NodeLocation(node),
			"node '%s' requires property '%s'", node.Name.Value, key)
	}
	return e, nil
}

// args returns every positional argument of node; there must be at least one.
func args(node *kdl.Node) ([]*kdl.Entry, error) {
	out := node.Arguments()
	if len(out) == 0 {
		return nil, diagnostics.Newf(diagnostics.NodeLocation(node),
			"node '%s' requires at least one argument", node.Name.Value)
	}
	return out, nil
}

// rejectType fails on entries carrying a type annotation.
func rejectType(e *kdl.Entry) error {
	if e.Type == nil {
		return nil
	}
	return diagnostics.Newf(diagnostics.EntryLocation(e),
		"type annotations are not supported on this entry, found: %s", e.Type.Value).At(e.Type.Span)
}

// typeName describes an entry for "invalid type" messages.
func typeName(e *kdl.Entry) string {
	if e.Type != nil {
		return e.Type.Value
	}
	return e.Value.Kind.String()
}

// asString returns the string value of e. No coercion is applied.
func asString(e *kdl.Entry) (string, error) {
	if err := rejectType(e); err != nil {
		return "", err
	}
	if e.Value.Kind != kdl.KindString {
		return "", diagnostics.Newf(diagnostics.EntryLocation(e),
			"invalid type: %s, expected: %s", typeName(e), "string")
	}
	return e.Value.Str, nil
}

// asBool returns the boolean value of e. No coercion is applied.
func asBool(e *kdl.Entry) (bool, error) {
	if err := rejectType(e); err != nil {
		return false, err
	}
	if e.Value.Kind != kdl.KindBool {
		return false, diagnostics.Newf(diagnostics.EntryLocation(e),
			"invalid type: %s, expected: %s", typeName(e), "bool")
	}
	return e.Value.Bool, nil
}

// parseVariant reads a string from e that must be one of names.
func parseVariant(e *kdl.Entry, names []string) (string, error) {
	s, err := asString(e)
	if err != nil {
		return "", err
	}
	for _, n := range names {
		if n == s {
			return s, nil
		}
	}
	return "", diagnostics.UnknownVariant(diagnostics.EntryLocation(e), s, diagnostics.OneOf(names))
}

package diagnostics

import (
	"fmt"
)

// Error carries every diagnostic raised for one document together with the
// document text they point into.
type Error struct {
	// Name is the file name shown in rendered reports. It may be empty.
	Name        string
	Source      string
	Diagnostics []*Diagnostic
}

// NewError wraps diags with the source they refer to.
func NewError(name, source string, diags ...*Diagnostic) *Error {
	return &Error{Name: name, Source: source, Diagnostics: diags}
}

func (e *Error) Error() string {
	if e.Name != "" {
		return "config error in " + e.Name
	}
	return "config error"
}

// Unwrap exposes the individual diagnostics to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	out := make([]error, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		out[i] = d
	}
	return out
}

// First returns the first diagnostic, or nil.
func (e *Error) First() *Diagnostic {
	if len(e.Diagnostics) == 0 {
		return nil
	}
	return e.Diagnostics[0]
}

// JSONable flattens the diagnostics for structured logging. Each map has
// message, span ("offset:+length"), kind and severity, plus help when set.
func (e *Error) JSONable() []map[string]string {
	out := make([]map[string]string, 0, len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		m := map[string]string{
			"message":  d.Message,
			"span":     fmt.Sprintf("%d:+%d", d.Primary.Offset, d.Primary.Length),
			"kind":     d.KindString(),
			"severity": d.Severity.String(),
		}
		if d.Help != "" {
			m["help"] = d.Help
		}
		out = append(out, m)
	}
	return out
}

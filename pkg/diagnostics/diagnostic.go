package diagnostics

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/dots/pkg/kdl"
)

// Kind enumerates the diagnostic families.
type Kind int

const (
	// KindParse covers syntax errors and malformed document shapes
	// (missing nodes, wrong entry types, ...).
	KindParse Kind = iota
	KindUnknownVariant
	KindPathNotFound
	KindEnvExpand
)

// Severity of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "Warning"
	}
	return "Error"
}

// Label is a highlighted span with a short caption.
type Label struct {
	Span Span
	Text string
}

// Diagnostic is a single problem in a document.
type Diagnostic struct {
	Kind     Kind
	Message  string
	Help     string
	Severity Severity
	Location Location
	// Reference is a second location relevant to the problem, such as the
	// place where the valid variants are declared.
	Reference *Location
	// Primary is the span the diagnostic is reported at. Constructors set
	// it to the value span of Location.
	Primary Span
	Cause   error
}

func (d *Diagnostic) Error() string { return d.Message }

func (d *Diagnostic) Unwrap() error { return d.Cause }

// Span returns the primary span.
func (d *Diagnostic) Span() Span { return d.Primary }

// KindString names the diagnostic family for structured output.
func (d *Diagnostic) KindString() string {
	switch d.Kind {
	case KindUnknownVariant:
		if d.Reference != nil {
			return "unknown variant reference"
		}
		return "unknown variant"
	case KindPathNotFound:
		return "path not found"
	case KindEnvExpand:
		return "environment expansion error"
	default:
		return "parse error"
	}
}

// IsWarning reports whether the diagnostic has warning severity.
func (d *Diagnostic) IsWarning() bool { return d.Severity == SeverityWarning }

// Labels returns the spans to highlight: the primary span and, when set, the
// reference location.
func (d *Diagnostic) Labels() []Label {
	labels := []Label{{Span: d.Primary, Text: "here"}}
	if d.Reference != nil {
		labels = append(labels, Label{
			Span: d.Reference.Span(),
			Text: "reference " + d.Reference.At(),
		})
	}
	return labels
}

// WithHelp sets the help text.
func (d *Diagnostic) WithHelp(help string) *Diagnostic {
	d.Help = help
	return d
}

// WithSeverity sets the severity.
func (d *Diagnostic) WithSeverity(s Severity) *Diagnostic {
	d.Severity = s
	return d
}

// At moves the primary span.
func (d *Diagnostic) At(span Span) *Diagnostic {
	d.Primary = span
	return d
}

// New returns a document-shape diagnostic at loc.
func New(loc Location, message string) *Diagnostic {
	return &Diagnostic{Kind: KindParse, Message: message, Location: loc, Primary: loc.Value}
}

// Newf is New with a format string.
func Newf(loc Location, format string, args ...any) *Diagnostic {
	return New(loc, fmt.Sprintf(format, args...))
}

// UnknownVariant reports a value outside a closed set.
func UnknownVariant(loc Location, variant string, expected OneOf) *Diagnostic {
	return &Diagnostic{
		Kind:     KindUnknownVariant,
		Message:  fmt.Sprintf("unknown variant `%s` at %s, expected %s", variant, loc.AtValue(), expected),
		Help:     "expected " + expected.String(),
		Location: loc,
		Primary:  loc.Value,
	}
}

// UnknownVariantReference is UnknownVariant with a cross-reference to where
// the valid variants are defined.
func UnknownVariantReference(loc Location, variant string, expected OneOf, ref Location) *Diagnostic {
	d := UnknownVariant(loc, variant, expected)
	d.Reference = &ref
	d.Help = fmt.Sprintf("define the variant in the referenced %s or select %s", ref.At(), expected)
	return d
}

// PathNotFound reports a declared path that does not exist.
func PathNotFound(loc Location, path string) *Diagnostic {
	return &Diagnostic{
		Kind:     KindPathNotFound,
		Message:  "path not found: " + path,
		Help:     "ensure the path exists",
		Location: loc,
		Primary:  loc.Value,
	}
}

// EnvExpand reports a failed variable expansion. expected lists the
// variables that were defined.
func EnvExpand(loc Location, cause error, expected OneOf) *Diagnostic {
	return &Diagnostic{
		Kind:     KindEnvExpand,
		Message:  fmt.Sprintf("failed to expand environment variable at %s: %v", loc.AtValue(), cause),
		Help:     "expected " + expected.String(),
		Location: loc,
		Primary:  loc.Value,
		Cause:    cause,
	}
}

// FromParseError converts a syntax error into a diagnostic.
func FromParseError(err *kdl.ParseError) *Diagnostic {
	loc := Location{Kind: AtDocument, Entry: err.Span, Key: err.Span, Value: err.Span}
	return &Diagnostic{
		Kind:     KindParse,
		Message:  err.Message,
		Help:     err.Help,
		Location: loc,
		Primary:  err.Span,
		Cause:    err,
	}
}

// OneOf renders a list of alternatives:
//
//	`a`
//	`a` or `b`
//	one of `a`, `b`, `c`
type OneOf []string

func (o OneOf) String() string {
	switch len(o) {
	case 0:
		return "there are no variants"
	case 1:
		return "`" + o[0] + "`"
	case 2:
		return "`" + o[0] + "` or `" + o[1] + "`"
	}
	quoted := make([]string, len(o))
	for i, n := range o {
		quoted[i] = "`" + n + "`"
	}
	return "one of " + strings.Join(quoted, ", ")
}

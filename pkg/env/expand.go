package env

import (
	"fmt"
	"regexp"
	"strings"
)

// varPattern matches $NAME, ${NAME}, ${NAME:-default} and ${NAME:+alt}.
// Names are Unicode word characters.
var varPattern = regexp.MustCompile(`\$([\p{L}\p{M}\p{N}_]+)|\$\{([\p{L}\p{M}\p{N}_]+)(?::([-+])([^}]*))?\}`)

// Lookuper resolves variable names during expansion.
type Lookuper interface {
	Get(key string) (string, bool)
}

// MapLookup adapts a plain map to Lookuper.
type MapLookup map[string]string

// Get implements Lookuper.
func (m MapLookup) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Expanded is the result of a successful expansion.
type Expanded struct {
	Value string
	Raw   string
	// Replacements counts the references that contributed a value. A
	// ${NAME:+alt} that expanded to nothing is not counted.
	Replacements int
}

// Templated reports whether any reference was substituted.
func (e Expanded) Templated() bool {
	return e.Replacements > 0
}

// ExpandError reports a reference to a variable that is unset or empty.
// Offset and Length locate the whole reference in the expanded input.
type ExpandError struct {
	Var    string
	Offset int
	Length int
}

func (e *ExpandError) Error() string {
	return fmt.Sprintf("environment variable '$%s' not found at offset %d (len %d)", e.Var, e.Offset, e.Length)
}

// Expand substitutes variable references in input in a single left-to-right
// pass. Substituted text is never scanned again.
func Expand(input string, vars Lookuper) (Expanded, error) {
	var b strings.Builder
	b.Grow(len(input))
	last, count := 0, 0

	for _, m := range varPattern.FindAllStringSubmatchIndex(input, -1) {
		start, end := m[0], m[1]
		b.WriteString(input[last:start])
		last = end

		if m[2] >= 0 {
			name := input[m[2]:m[3]]
			val, ok := vars.Get(name)
			if !ok || val == "" {
				return Expanded{}, &ExpandError{Var: name, Offset: start, Length: end - start}
			}
			b.WriteString(val)
			count++
			continue
		}

		name := input[m[4]:m[5]]
		val, _ := vars.Get(name)
		op := ""
		if m[6] >= 0 {
			op = input[m[6]:m[7]]
		}
		word := ""
		if m[8] >= 0 {
			word = input[m[8]:m[9]]
		}

		switch op {
		case "-":
			if val == "" {
				b.WriteString(word)
			} else {
				b.WriteString(val)
			}
			count++
		case "+":
			if val != "" {
				b.WriteString(word)
				count++
			}
		default:
			if val == "" {
				return Expanded{}, &ExpandError{Var: name, Offset: start, Length: end - start}
			}
			b.WriteString(val)
			count++
		}
	}
	b.WriteString(input[last:])

	return Expanded{Value: b.String(), Raw: input, Replacements: count}, nil
}

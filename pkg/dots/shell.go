package dots

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arthur-debert/dots/pkg/config"
	"github.com/arthur-debert/dots/pkg/env"
	"github.com/arthur-debert/dots/pkg/errors"
)

// ShellInit renders the init script for shell: exported variables, then
// aliases, then the snippets declared for shell ordered start, random, end.
// Shells outside config.KnownShells get POSIX syntax.
func (d *Dots) ShellInit(shell config.Shell) (string, error) {
	if shell == "" {
		return "", errors.New(errors.ErrUnknownShell, "no shell given").
			WithDetail("help", "expected one of "+shellNames())
	}
	syn := syntaxFor(shell)

	var b strings.Builder
	fmt.Fprintf(&b, "%s generated by dots for %s\n", syn.comment, shell)

	for _, kv := range d.exportedVars() {
		b.WriteString(syn.export(kv.Key, kv.Entry.Value.Text))
		b.WriteByte('\n')
	}

	for _, bundle := range d.bundles {
		for _, a := range bundle.Actions {
			if alias, ok := a.(*config.Alias); ok {
				b.WriteString(syn.alias(alias.From, alias.To))
				b.WriteByte('\n')
			}
		}
	}

	for _, s := range d.snippets(shell) {
		b.WriteString(strings.TrimRight(s.Snippet, "\n"))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// exportedVars merges the exported variables of the document store and of
// every selected bundle store. Later bundles override earlier values; keys
// keep the position of their first appearance.
func (d *Dots) exportedVars() []env.KeyValue {
	index := make(map[string]int)
	var out []env.KeyValue
	add := func(kvs []env.KeyValue) {
		for _, kv := range kvs {
			if i, ok := index[kv.Key]; ok {
				out[i] = kv
				continue
			}
			index[kv.Key] = len(out)
			out = append(out, kv)
		}
	}
	add(d.Config.Env.Exported())
	for _, b := range d.bundles {
		if b.Env != nil {
			add(b.Env.Exported())
		}
	}
	return out
}

var positionRank = map[config.Position]int{
	config.PositionStart:  0,
	config.PositionRandom: 1,
	config.PositionEnd:    2,
}

func (d *Dots) snippets(shell config.Shell) []*config.Source {
	var out []*config.Source
	for _, b := range d.bundles {
		for _, a := range b.Actions {
			if s, ok := a.(*config.Source); ok && s.Shell == shell {
				out = append(out, s)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return positionRank[out[i].Position] < positionRank[out[j].Position]
	})
	return out
}

type syntax struct {
	comment string
	export  func(key, value string) string
	alias   func(from, to string) string
}

func syntaxFor(shell config.Shell) syntax {
	switch shell {
	case config.Fish:
		return syntax{
			comment: "#",
			export:  func(k, v string) string { return "set -gx " + k + " " + fishQuote(v) },
			alias:   func(f, t string) string { return "alias " + f + " " + fishQuote(t) },
		}
	case config.Nushell:
		return syntax{
			comment: "#",
			export:  func(k, v string) string { return "$env." + k + " = " + doubleQuote(v) },
			alias:   func(f, t string) string { return "alias " + f + " = " + t },
		}
	case config.PowerShell:
		return syntax{
			comment: "#",
			export:  func(k, v string) string { return "$env:" + k + " = " + pwshQuote(v) },
			alias:   func(f, t string) string { return "function " + f + " { " + t + " @args }" },
		}
	default:
		return syntax{
			comment: "#",
			export:  func(k, v string) string { return "export " + k + "=" + posixQuote(v) },
			alias:   func(f, t string) string { return "alias " + f + "=" + posixQuote(t) },
		}
	}
}

func posixQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func fishQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

func pwshQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func doubleQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func shellNames() string {
	names := make([]string, len(config.KnownShells))
	for i, s := range config.KnownShells {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

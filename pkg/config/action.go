package config

import (
	"github.com/arthur-debert/dots/pkg/diagnostics"
	"github.com/arthur-debert/dots/pkg/env"
	"github.com/arthur-debert/dots/pkg/kdl"
)

// Action is one resolved bundle entry. The set of implementations is closed:
// *Copy, *Link, *Alias and *Source.
type Action interface {
	// Tag is the node name the action was declared with.
	Tag() string
	// NodeSpan is the span of the declaring node.
	NodeSpan() kdl.Span
	action()
}

// Copy copies Source (inside the dotfiles directory) to Destination.
type Copy struct {
	Source      string
	Destination string
	Span        kdl.Span
}

// Link links Destination to Source. Hard selects a hard link instead of a
// symbolic one.
type Link struct {
	Source      string
	Destination string
	Hard        bool
	Span        kdl.Span
}

// Alias declares a shell alias.
type Alias struct {
	From string
	To   string
	Span kdl.Span
}

// Source injects a shell snippet into the init script of one shell.
type Source struct {
	Snippet  string
	Shell    Shell
	Position Position
	Span     kdl.Span
}

func (*Copy) Tag() string   { return TagCopy }
func (*Link) Tag() string   { return TagLink }
func (*Alias) Tag() string  { return TagAlias }
func (*Source) Tag() string { return TagSource }

func (a *Copy) NodeSpan() kdl.Span   { return a.Span }
func (a *Link) NodeSpan() kdl.Span   { return a.Span }
func (a *Alias) NodeSpan() kdl.Span  { return a.Span }
func (a *Source) NodeSpan() kdl.Span { return a.Span }

func (*Copy) action()   {}
func (*Link) action()   {}
func (*Alias) action()  {}
func (*Source) action() {}

// Node names recognised inside a bundle.
const (
	TagCopy   = "cp"
	TagLink   = "ln"
	TagAlias  = "alias"
	TagSource = "source"
	TagEnv    = "env"
)

// BundleTags lists the recognised bundle children in declaration order.
var BundleTags = []string{TagCopy, TagLink, TagAlias, TagSource, TagEnv}

// Shell names the shell a snippet targets. Names outside the known set are
// kept verbatim.
type Shell string

const (
	Bash       Shell = "bash"
	Zsh        Shell = "zsh"
	Fish       Shell = "fish"
	PowerShell Shell = "pwsh"
	Nushell    Shell = "nushell"
)

// KnownShells lists the shells with dedicated init syntax.
var KnownShells = []Shell{Bash, Zsh, Fish, PowerShell, Nushell}

// ParseShell never fails: unknown names become an "other" shell.
func ParseShell(s string) Shell { return Shell(s) }

// IsKnown reports whether s is one of KnownShells.
func (s Shell) IsKnown() bool {
	for _, k := range KnownShells {
		if k == s {
			return true
		}
	}
	return false
}

func (s Shell) String() string { return string(s) }

// Position orders snippets within a generated init script.
type Position string

const (
	PositionStart  Position = "start"
	PositionEnd    Position = "end"
	PositionRandom Position = "random"
)

// PositionNames lists the accepted position values.
var PositionNames = []string{string(PositionStart), string(PositionEnd), string(PositionRandom)}

// Bundle is a named group of actions. Env is non-nil only when the bundle
// declared its own env nodes.
type Bundle struct {
	Name    string
	Actions []Action
	Env     *env.Store
	Span    kdl.Span
}

// Config is a fully resolved document.
type Config struct {
	Env         *env.Store
	DotfilesDir string
	Bundles     []*Bundle
	// Warnings holds non-fatal diagnostics raised during resolution.
	Warnings []*diagnostics.Diagnostic
}

// Bundle returns the bundle called name.
func (c *Config) Bundle(name string) (*Bundle, bool) {
	for _, b := range c.Bundles {
		if b.Name == name {
			return b, true
		}
	}
	return nil, false
}

// BundleNames returns the bundle names in declaration order.
func (c *Config) BundleNames() []string {
	names := make([]string, len(c.Bundles))
	for i, b := range c.Bundles {
		names[i] = b.Name
	}
	return names
}

// EnvForBundle returns the bundle's own store, or the document store when the
// bundle has none or does not exist.
func (c *Config) EnvForBundle(name string) *env.Store {
	if b, ok := c.Bundle(name); ok && b.Env != nil {
		return b.Env
	}
	return c.Env
}

package config

import (
	"errors"

	"github.com/arthur-debert/dots/pkg/diagnostics"
	"github.com/arthur-debert/dots/pkg/kdl"
)

// Load parses and resolves src. Syntax and resolution failures are returned
// as a *diagnostics.Error carrying name and src for rendering.
func Load(name, src string, opts ...Option) (*Config, error) {
	doc, err := kdl.Parse(src)
	if err != nil {
		var perr *kdl.ParseError
		if errors.As(err, &perr) {
			return nil, diagnostics.NewError(name, src, diagnostics.FromParseError(perr))
		}
		return nil, err
	}

	cfg, err := Resolve(doc, opts...)
	if err != nil {
		var d *diagnostics.Diagnostic
		if errors.As(err, &d) {
			return nil, diagnostics.NewError(name, src, d)
		}
		return nil, err
	}
	return cfg, nil
}

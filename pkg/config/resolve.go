package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/arthur-debert/dots/pkg/diagnostics"
	"github.com/arthur-debert/dots/pkg/env"
	"github.com/arthur-debert/dots/pkg/kdl"
	"github.com/arthur-debert/dots/pkg/logging"
)

// Top-level node names.
const (
	NodeDotfilesDir = "dotfiles_dir"
	NodeBundle      = "bundle"
)

// env node modes.
const (
	modeExport = "export"
	modeImport = "import"
)

var envModes = []string{modeExport, modeImport}

// Option configures Resolve.
type Option func(*resolver)

// WithEnv seeds resolution with store instead of env.Base().
func WithEnv(store *env.Store) Option {
	return func(r *resolver) { r.seed = store }
}

// WithHostEnv sets where `env import` reads variables from. Defaults to the
// process environment.
func WithHostEnv(host env.Lookuper) Option {
	return func(r *resolver) { r.host = host }
}

// WithFs sets the filesystem used to validate paths. Defaults to the OS.
func WithFs(fs afero.Fs) Option {
	return func(r *resolver) { r.fs = fs }
}

// WithBaseDir makes a relative dotfiles_dir relative to dir, usually the
// directory holding the document.
func WithBaseDir(dir string) Option {
	return func(r *resolver) { r.baseDir = dir }
}

type resolver struct {
	seed     *env.Store
	host     env.Lookuper
	fs       afero.Fs
	baseDir  string
	logger   zerolog.Logger
	warnings []*diagnostics.Diagnostic
}

// Resolve turns a parsed document into a Config. It stops at the first fatal
// problem and returns it as a *diagnostics.Diagnostic. Nothing on disk is
// modified.
func Resolve(doc *kdl.Document, opts ...Option) (*Config, error) {
	r := &resolver{
		host:   env.Host{},
		fs:     afero.NewOsFs(),
		logger: logging.GetLogger("config"),
	}
	for _, opt := range opts {
		opt(r)
	}
	store := r.seed
	if store == nil {
		store = env.Base()
	}

	dirNode, err := requiredNode(doc, NodeDotfilesDir)
	if err != nil {
		return nil, err
	}
	dirEntry, err := argAt(dirNode, 0)
	if err != nil {
		return nil, err
	}
	dir, err := r.dotfilesDir(store, dirEntry)
	if err != nil {
		return nil, err
	}

	for _, n := range doc.NodesNamed(TagEnv) {
		if err := r.applyEnv(store, n); err != nil {
			return nil, err
		}
	}

	cfg := &Config{Env: store, DotfilesDir: dir}
	for _, n := range doc.NodesNamed(NodeBundle) {
		b, err := r.bundle(cfg, n)
		if err != nil {
			return nil, err
		}
		cfg.Bundles = append(cfg.Bundles, b)
		r.logger.Debug().
			Str("bundle", b.Name).
			Int("actions", len(b.Actions)).
			Bool("local_env", b.Env != nil).
			Msg("Resolved bundle")
	}
	cfg.Warnings = r.warnings
	return cfg, nil
}

func (r *resolver) dotfilesDir(store *env.Store, e *kdl.Entry) (string, error) {
	expanded, err := r.expandEntry(store, e)
	if err != nil {
		return "", err
	}
	path := expanded
	if !filepath.IsAbs(path) && r.baseDir != "" {
		path = filepath.Join(r.baseDir, path)
	}
	path = filepath.Clean(path)

	loc := diagnostics.EntryLocation(e)
	info, err := r.fs.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return "", diagnostics.PathNotFound(loc, path)
	case err != nil:
		return "", diagnostics.Newf(loc, "failed to access path %s: %v", expanded, err).
			WithHelp("check the path permissions or system state, or update the configuration").
			WithSeverity(diagnostics.SeverityWarning)
	case !info.IsDir():
		return "", diagnostics.Newf(loc, "path is not a directory: %s", expanded).
			WithHelp("ensure the path is a directory, or update the configuration").
			WithSeverity(diagnostics.SeverityWarning)
	}
	return path, nil
}

func (r *resolver) bundle(cfg *Config, node *kdl.Node) (*Bundle, error) {
	nameEntry, err := argAt(node, 0)
	if err != nil {
		return nil, err
	}
	name, err := asString(nameEntry)
	if err != nil {
		return nil, err
	}
	if _, dup := cfg.Bundle(name); dup {
		return nil, diagnostics.Newf(diagnostics.NodeLocation(node),
			"node '%s' with id '%s' can only be specified once", node.Name.Value, name)
	}

	b := &Bundle{Name: name, Span: node.Span}
	for _, child := range node.ChildNodes() {
		current := cfg.Env
		if b.Env != nil {
			current = b.Env
		}

		var action Action
		switch child.Name.Value {
		case TagCopy:
			src, dst, err := r.transfer(cfg.DotfilesDir, current, child)
			if err != nil {
				return nil, err
			}
			action = &Copy{Source: src, Destination: dst, Span: child.Span}
		case TagLink:
			src, dst, err := r.transfer(cfg.DotfilesDir, current, child)
			if err != nil {
				return nil, err
			}
			hard := false
			if e, ok := child.Property("hard"); ok {
				if hard, err = asBool(e); err != nil {
					return nil, err
				}
			}
			action = &Link{Source: src, Destination: dst, Hard: hard, Span: child.Span}
		case TagAlias:
			e, err := propAt(child, 0)
			if err != nil {
				return nil, err
			}
			to, err := r.expandEntry(current, e)
			if err != nil {
				return nil, err
			}
			action = &Alias{From: e.Name.Value, To: to, Span: child.Span}
		case TagSource:
			src, err := r.source(child)
			if err != nil {
				return nil, err
			}
			action = src
		case TagEnv:
			if b.Env == nil {
				b.Env = cfg.Env.Child()
			}
			if err := r.applyEnv(b.Env, child); err != nil {
				return nil, err
			}
			continue
		default:
			return nil, diagnostics.UnknownVariant(
				diagnostics.NodeLocation(child), child.Name.Value, diagnostics.OneOf(BundleTags),
			).At(child.Name.Span)
		}
		b.Actions = append(b.Actions, action)
	}
	return b, nil
}

// transfer resolves the source and destination of a cp or ln node. The
// source must exist inside the dotfiles directory.
func (r *resolver) transfer(dotfilesDir string, store *env.Store, node *kdl.Node) (string, string, error) {
	srcEntry, err := argAt(node, 0)
	if err != nil {
		return "", "", err
	}
	rel, err := asString(srcEntry)
	if err != nil {
		return "", "", err
	}
	src := filepath.Join(dotfilesDir, rel)
	if _, err := r.fs.Stat(src); err != nil {
		return "", "", diagnostics.PathNotFound(diagnostics.EntryLocation(srcEntry), src)
	}

	dstEntry, err := arg(node, 1)
	if err != nil {
		return "", "", err
	}
	dst, err := r.expandEntry(store, dstEntry)
	if err != nil {
		return "", "", err
	}
	return src, dst, nil
}

func (r *resolver) source(node *kdl.Node) (*Source, error) {
	snippetEntry, err := arg(node, 0)
	if err != nil {
		return nil, err
	}
	snippet, err := asString(snippetEntry)
	if err != nil {
		return nil, err
	}
	shellEntry, err := prop(node, "shell")
	if err != nil {
		return nil, err
	}
	shell, err := asString(shellEntry)
	if err != nil {
		return nil, err
	}
	position := PositionRandom
	if e, ok := node.Property("position"); ok {
		p, err := parseVariant(e, PositionNames)
		if err != nil {
			return nil, err
		}
		position = Position(p)
	}
	return &Source{Snippet: snippet, Shell: ParseShell(shell), Position: position, Span: node.Span}, nil
}

// applyEnv applies one env node to store. Accepted shapes:
//
//	env KEY=VALUE
//	env KEY VALUE
//	env export KEY=VALUE
//	env import KEY
//	env import KEY=DEFAULT
func (r *resolver) applyEnv(store *env.Store, node *kdl.Node) error {
	first, err := entryAt(node, 0)
	if err != nil {
		return err
	}
	if first.IsProperty() {
		return r.setFromEntry(store, first.Name.Value, first, false)
	}

	mode, err := asString(first)
	if err != nil {
		return err
	}
	switch mode {
	case modeExport:
		e, err := propAt(node, 1)
		if err != nil {
			return err
		}
		return r.setFromEntry(store, e.Name.Value, e, true)
	case modeImport:
		return r.importEnv(store, node)
	}

	if second, ok := node.EntryAt(1); ok && !second.IsProperty() {
		return r.setFromEntry(store, mode, second, false)
	}
	return diagnostics.UnknownVariant(diagnostics.EntryLocation(first), mode, diagnostics.OneOf(envModes))
}

func (r *resolver) setFromEntry(store *env.Store, key string, e *kdl.Entry, exported bool) error {
	value, err := r.expandEntry(store, e)
	if err != nil {
		return err
	}
	loc := diagnostics.EntryLocation(e)
	store.Set(key, env.Entry{
		Value: env.String(value),
		Meta:  env.Meta{Exported: exported, Origin: &loc},
	})
	return nil
}

func (r *resolver) importEnv(store *env.Store, node *kdl.Node) error {
	e, err := entryAt(node, 1)
	if err != nil {
		return err
	}
	var key, def string
	if e.IsProperty() {
		key = e.Name.Value
		if def, err = asString(e); err != nil {
			return err
		}
	} else if key, err = asString(e); err != nil {
		return err
	}

	loc := diagnostics.EntryLocation(e)
	if value, ok := r.host.Get(key); ok {
		store.Set(key, env.Entry{
			Value: env.String(value),
			Meta:  env.Meta{Inherited: true, Exported: true, Origin: &loc},
		})
		return nil
	}
	if def != "" {
		return r.setFromEntry(store, key, e, false)
	}

	w := diagnostics.Newf(loc, "environment variable '%s' not found", key).
		WithHelp("ensure the environment variable is set, or provide a default value").
		WithSeverity(diagnostics.SeverityWarning).
		At(e.Span)
	r.warnings = append(r.warnings, w)
	r.logger.Warn().Str("variable", key).Msg("Imported environment variable is not set")
	return nil
}

// expandEntry reads a string entry and expands it against store. Expansion
// failures point at the variable reference when the literal maps directly
// onto the value.
func (r *resolver) expandEntry(store *env.Store, e *kdl.Entry) (string, error) {
	s, err := asString(e)
	if err != nil {
		return "", err
	}
	out, err := store.Expand(s)
	if err == nil {
		return out.Value, nil
	}

	loc := diagnostics.EntryLocation(e)
	d := diagnostics.EnvExpand(loc, err, diagnostics.OneOf(store.Keys()))
	var xe *env.ExpandError
	if errors.As(err, &xe) {
		if offset, ok := contentOffset(e.Value.Raw, s); ok {
			d.At(diagnostics.Span{Offset: loc.Value.Offset + offset + xe.Offset, Length: xe.Length})
		}
	}
	return "", d
}

// contentOffset returns where the decoded string str starts inside its
// literal raw, when the literal contains str verbatim.
func contentOffset(raw, str string) (int, bool) {
	if raw == str {
		return 0, true
	}
	i := strings.IndexByte(raw, '"')
	if i < 0 {
		return 0, false
	}
	start := i + 1
	if start+len(str) <= len(raw) && raw[start:start+len(str)] == str {
		return start, true
	}
	return 0, false
}

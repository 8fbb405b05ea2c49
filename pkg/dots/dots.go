// Package dots ties the pipeline together: it loads and resolves a
// configuration document, selects bundles, and runs install, uninstall,
// doctor and shell-init against them.
package dots

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/arthur-debert/dots/pkg/config"
	"github.com/arthur-debert/dots/pkg/diagnostics"
	"github.com/arthur-debert/dots/pkg/env"
	"github.com/arthur-debert/dots/pkg/errors"
	"github.com/arthur-debert/dots/pkg/filesystem"
	"github.com/arthur-debert/dots/pkg/kdl"
	"github.com/arthur-debert/dots/pkg/logging"
)

// Options configures Create.
type Options struct {
	// ConfigPath is the configuration document to load.
	ConfigPath string
	// Bundles restricts operations to these bundles. Empty means all.
	Bundles []string
	DryRun  bool
	Force   bool
	// HardLinks makes every `ln` entry a hard link.
	HardLinks bool
	// Ignore lists base-name globs skipped while walking source trees.
	Ignore []string

	// FS defaults to the OS filesystem.
	FS filesystem.FS
	// Env seeds resolution instead of the well-known host variables.
	Env *env.Store
	// Host is where `env import` reads from. Defaults to the process
	// environment.
	Host env.Lookuper
}

// Dots is a loaded document plus the options to act on it with.
type Dots struct {
	Path   string
	Source string
	Config *config.Config

	opts    Options
	fs      filesystem.FS
	bundles []*config.Bundle
	logger  zerolog.Logger
}

// Create reads, parses and resolves the document at opts.ConfigPath and
// validates the bundle selection. Nothing on disk is modified.
func Create(opts Options) (*Dots, error) {
	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	logger := logging.GetLogger("dots")

	path := opts.ConfigPath
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Newf(errors.ErrConfigNotFound, "config not found: %s", path).
				WithDetail("path", path)
		}
		return nil, errors.Wrapf(err, errors.ErrConfigRead, "failed to read config %s", path)
	}
	src := string(data)

	resolveOpts := []config.Option{
		config.WithFs(fsys),
		config.WithBaseDir(filepath.Dir(path)),
	}
	if opts.Env != nil {
		resolveOpts = append(resolveOpts, config.WithEnv(opts.Env))
	}
	if opts.Host != nil {
		resolveOpts = append(resolveOpts, config.WithHostEnv(opts.Host))
	}

	cfg, err := config.Load(path, src, resolveOpts...)
	if err != nil {
		code := errors.ErrConfigInvalid
		var perr *kdl.ParseError
		if stderrors.As(err, &perr) {
			code = errors.ErrConfigParse
		}
		return nil, errors.Wrapf(err, code, "failed to load %s", path)
	}

	for _, w := range cfg.Warnings {
		logger.Warn().Str("kind", w.KindString()).Str("help", w.Help).Msg(w.Message)
	}

	selected, err := selectBundles(cfg, opts.Bundles)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("dotfiles_dir", cfg.DotfilesDir).
		Strs("env", cfg.Env.Keys()).
		Strs("bundles", cfg.BundleNames()).
		Msg("Config resolved")

	return &Dots{
		Path:    path,
		Source:  src,
		Config:  cfg,
		opts:    opts,
		fs:      fsys,
		bundles: selected,
		logger:  logger,
	}, nil
}

func selectBundles(cfg *config.Config, names []string) ([]*config.Bundle, error) {
	if len(names) == 0 {
		return cfg.Bundles, nil
	}
	out := make([]*config.Bundle, 0, len(names))
	for _, name := range names {
		b, ok := cfg.Bundle(name)
		if !ok {
			help := "expected " + diagnostics.OneOf(cfg.BundleNames()).String()
			return nil, errors.Newf(errors.ErrBundleNotFound, "bundle not found: %s", name).
				WithDetail("bundle", name).
				WithDetail("help", help)
		}
		out = append(out, b)
	}
	return out, nil
}

// Bundles returns the selected bundles in selection order.
func (d *Dots) Bundles() []*config.Bundle {
	return d.bundles
}

// Warnings returns non-fatal diagnostics raised while resolving, wrapped
// with the document source for rendering. It is nil when there are none.
func (d *Dots) Warnings() *diagnostics.Error {
	if len(d.Config.Warnings) == 0 {
		return nil
	}
	return diagnostics.NewError(d.Path, d.Source, d.Config.Warnings...)
}

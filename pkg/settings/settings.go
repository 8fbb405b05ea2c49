// Package settings loads the dots application settings. These control how
// the tool runs (which document, dry run, output format) and are distinct
// from the dotfiles configuration document itself.
package settings

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	dotserrors "github.com/arthur-debert/dots/pkg/errors"
	"github.com/arthur-debert/dots/pkg/paths"
)

//go:embed defaults.toml
var defaultSettings []byte

// EnvPrefix marks environment variables read as settings. A double
// underscore separates nesting levels: DOTS_OUTPUT__FORMAT is output.format.
const EnvPrefix = "DOTS_"

// LinkMode selects how `ln` entries are materialised.
type LinkMode string

const (
	LinkSymlink  LinkMode = "symlink"
	LinkHardlink LinkMode = "hardlink"
)

// Output formats accepted by output.format.
const (
	FormatAuto = "auto"
	FormatTerm = "term"
	FormatText = "text"
	FormatJSON = "json"
)

type Settings struct {
	Config    string   `koanf:"config"`
	DryRun    bool     `koanf:"dry_run"`
	Force     bool     `koanf:"force"`
	Verbosity int      `koanf:"verbosity"`
	LinkMode  LinkMode `koanf:"link_mode"`
	Bundles   []string `koanf:"bundles"`
	Output    Output   `koanf:"output"`
	Walk      Walk     `koanf:"walk"`
}

type Output struct {
	Format string `koanf:"format"`
}

type Walk struct {
	Ignore []string `koanf:"ignore"`
}

// EffectiveVerbosity raises dry runs to at least debug so that every
// skipped action is visible.
func (s *Settings) EffectiveVerbosity() int {
	if s.DryRun && s.Verbosity < 2 {
		return 2
	}
	return s.Verbosity
}

type options struct {
	file      string
	useEnv    bool
	overrides map[string]interface{}
}

// Option customises Load.
type Option func(*options)

// WithFile reads user settings from path instead of the default location.
// A missing file is not an error.
func WithFile(path string) Option {
	return func(o *options) { o.file = path }
}

// WithoutEnv ignores DOTS_* environment variables.
func WithoutEnv() Option {
	return func(o *options) { o.useEnv = false }
}

// WithOverrides applies values last, keyed by dotted setting path. The CLI
// passes the flags the user actually set.
func WithOverrides(values map[string]interface{}) Option {
	return func(o *options) { o.overrides = values }
}

// Load layers embedded defaults, the user settings file, DOTS_* environment
// variables and overrides, in that order.
func Load(opts ...Option) (*Settings, error) {
	o := &options{file: paths.SettingsPath(), useEnv: true}
	for _, opt := range opts {
		opt(o)
	}

	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultSettings}, toml.Parser()); err != nil {
		return nil, dotserrors.Wrap(err, dotserrors.ErrSettingsLoad, "failed to load default settings")
	}

	// 2. User settings file
	if o.file != "" {
		if _, err := os.Stat(o.file); err == nil {
			if err := k.Load(file.Provider(o.file), toml.Parser()); err != nil {
				return nil, dotserrors.Wrapf(err, dotserrors.ErrSettingsLoad, "failed to load settings from %s", o.file)
			}
		}
	}

	// 3. Environment
	if o.useEnv {
		if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			return nil, dotserrors.Wrap(err, dotserrors.ErrSettingsLoad, "failed to load environment settings")
		}
	}

	// 4. Overrides
	if len(o.overrides) > 0 {
		if err := k.Load(confmap.Provider(o.overrides, "."), nil); err != nil {
			return nil, dotserrors.Wrap(err, dotserrors.ErrSettingsLoad, "failed to load overrides")
		}
	}

	var s Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &s, unmarshalConf); err != nil {
		return nil, dotserrors.Wrap(err, dotserrors.ErrSettingsLoad, "failed to unmarshal settings")
	}

	if err := postProcess(&s); err != nil {
		return nil, dotserrors.Wrap(err, dotserrors.ErrSettingsLoad, "invalid settings")
	}
	return &s, nil
}

// envKey maps DOTS_LINK_MODE to link_mode and DOTS_OUTPUT__FORMAT to
// output.format. DOTS_CONFIG_DIR and DOTS_STATE_DIR belong to the paths
// package and are skipped.
func envKey(s string) string {
	if s == paths.EnvConfigDir || s == paths.EnvStateDir {
		return ""
	}
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

func postProcess(s *Settings) error {
	switch s.LinkMode {
	case LinkSymlink, LinkHardlink:
	default:
		return fmt.Errorf("link_mode must be %q or %q, got %q", LinkSymlink, LinkHardlink, s.LinkMode)
	}

	switch s.Output.Format {
	case FormatAuto, FormatTerm, FormatText, FormatJSON:
	default:
		return fmt.Errorf("output.format must be one of auto, term, text, json, got %q", s.Output.Format)
	}

	if s.Verbosity < 0 {
		s.Verbosity = 0
	}
	s.Bundles = compact(s.Bundles)
	s.Walk.Ignore = compact(s.Walk.Ignore)
	return nil
}

func compact(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// rawBytesProvider implements koanf.Provider for embedded bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Defaults returns the embedded defaults file.
func Defaults() string {
	return string(defaultSettings)
}

package dots

import (
	"encoding/json"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/dots/pkg/config"
	"github.com/arthur-debert/dots/pkg/env"
	"github.com/arthur-debert/dots/pkg/errors"
)

// Export formats accepted by Export.
const (
	ExportJSON = "json"
	ExportYAML = "yaml"
	ExportTOML = "toml"
)

// ExportFormats lists the accepted export formats.
var ExportFormats = []string{ExportJSON, ExportYAML, ExportTOML}

// ConfigView is the serialisable form of a resolved document restricted to
// the selected bundles.
type ConfigView struct {
	DotfilesDir string            `json:"dotfiles_dir" yaml:"dotfiles_dir" toml:"dotfiles_dir"`
	Env         map[string]string `json:"env" yaml:"env" toml:"env"`
	Exported    []string          `json:"exported,omitempty" yaml:"exported,omitempty" toml:"exported,omitempty"`
	Bundles     []BundleView      `json:"bundles" yaml:"bundles" toml:"bundles"`
}

type BundleView struct {
	Name    string            `json:"name" yaml:"name" toml:"name"`
	Env     map[string]string `json:"env,omitempty" yaml:"env,omitempty" toml:"env,omitempty"`
	Actions []ActionView      `json:"actions" yaml:"actions" toml:"actions"`
}

// ActionView flattens every action kind into one record keyed by Type.
type ActionView struct {
	Type        string `json:"type" yaml:"type" toml:"type"`
	Source      string `json:"source,omitempty" yaml:"source,omitempty" toml:"source,omitempty"`
	Destination string `json:"destination,omitempty" yaml:"destination,omitempty" toml:"destination,omitempty"`
	Hard        bool   `json:"hard,omitempty" yaml:"hard,omitempty" toml:"hard,omitempty"`
	From        string `json:"from,omitempty" yaml:"from,omitempty" toml:"from,omitempty"`
	To          string `json:"to,omitempty" yaml:"to,omitempty" toml:"to,omitempty"`
	Snippet     string `json:"snippet,omitempty" yaml:"snippet,omitempty" toml:"snippet,omitempty"`
	Shell       string `json:"shell,omitempty" yaml:"shell,omitempty" toml:"shell,omitempty"`
	Position    string `json:"position,omitempty" yaml:"position,omitempty" toml:"position,omitempty"`
}

// View builds the ConfigView of the selected bundles.
func (d *Dots) View() ConfigView {
	view := ConfigView{
		DotfilesDir: d.Config.DotfilesDir,
		Env:         d.Config.Env.Map(),
		Bundles:     make([]BundleView, 0, len(d.bundles)),
	}
	for _, kv := range d.Config.Env.Exported() {
		view.Exported = append(view.Exported, kv.Key)
	}
	for _, b := range d.bundles {
		bv := BundleView{Name: b.Name, Actions: make([]ActionView, 0, len(b.Actions))}
		if b.Env != nil {
			bv.Env = localVars(b.Env)
		}
		for _, a := range b.Actions {
			bv.Actions = append(bv.Actions, actionView(a))
		}
		view.Bundles = append(view.Bundles, bv)
	}
	return view
}

// localVars returns the entries that differ from the parent store.
func localVars(s *env.Store) map[string]string {
	parent := s.Parent()
	out := make(map[string]string)
	for _, kv := range s.Entries() {
		if parent != nil {
			if v, ok := parent.Get(kv.Key); ok && v == kv.Entry.Value.Text {
				continue
			}
		}
		out[kv.Key] = kv.Entry.Value.Text
	}
	return out
}

func actionView(a config.Action) ActionView {
	v := ActionView{Type: a.Tag()}
	switch a := a.(type) {
	case *config.Copy:
		v.Source, v.Destination = a.Source, a.Destination
	case *config.Link:
		v.Source, v.Destination, v.Hard = a.Source, a.Destination, a.Hard
	case *config.Alias:
		v.From, v.To = a.From, a.To
	case *config.Source:
		v.Snippet, v.Shell, v.Position = a.Snippet, string(a.Shell), string(a.Position)
	}
	return v
}

// Export serialises View in format.
func (d *Dots) Export(format string) ([]byte, error) {
	view := d.View()
	var (
		out []byte
		err error
	)
	switch format {
	case ExportJSON:
		out, err = json.MarshalIndent(view, "", "  ")
		if err == nil {
			out = append(out, '\n')
		}
	case ExportYAML:
		out, err = yaml.Marshal(view)
	case ExportTOML:
		out, err = toml.Marshal(view)
	default:
		return nil, errors.Newf(errors.ErrExport, "unknown export format %q", format).
			WithDetail("formats", ExportFormats)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrExport, "failed to export config as %s", format)
	}
	return out, nil
}

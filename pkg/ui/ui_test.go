package ui_test

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dots/pkg/diagnostics"
	"github.com/arthur-debert/dots/pkg/dots"
	"github.com/arthur-debert/dots/pkg/errors"
	"github.com/arthur-debert/dots/pkg/fileops"
	"github.com/arthur-debert/dots/pkg/ui"
)

func sampleReport() *dots.Report {
	return &dots.Report{
		Command: "install",
		Entries: []dots.EntryResult{
			{Bundle: "zsh", Op: dots.OpCopy, Source: "/df/zshrc", Destination: "/home/me/.zshrc",
				Result: fileops.CopyResult{Kind: fileops.Copied, Bytes: 17}},
			{Bundle: "nvim", Op: dots.OpLink, Source: "/df/nvim", Destination: "/home/me/.config/nvim", IsDir: true,
				Result: fileops.LinkResult{Kind: fileops.Linked}},
			{Bundle: "nvim", Op: dots.OpLink, Source: "/df/nvim/init.lua", Destination: "/home/me/.config/nvim/init.lua", Depth: 1,
				Result: fileops.LinkResult{Kind: fileops.LinkSkippedExisting}},
		},
	}
}

func sampleDoctor() *dots.DoctorReport {
	return &dots.DoctorReport{Checks: []dots.Check{
		{Bundle: "zsh", Op: dots.OpCopy, Source: "/df/zshrc", Destination: "/home/me/.zshrc", State: dots.StateOK},
		{Bundle: "nvim", Op: dots.OpLink, Source: "/df/nvim/init.lua", Destination: "/home/me/.config/nvim/init.lua",
			State: dots.StateDiffers, Detail: "not a symlink"},
	}}
}

func sampleDiagnostics() *diagnostics.Error {
	src := "bundle \"zsh\" {\n    frob \"x\"\n}\n"
	d := &diagnostics.Diagnostic{
		Kind:    diagnostics.KindUnknownVariant,
		Message: "unknown action: frob",
		Help:    "expected one of cp, ln, alias",
		Primary: diagnostics.Span{Offset: 19, Length: 4},
	}
	return diagnostics.NewError("dotfiles.kdl", src, d)
}

func TestNewRenderer(t *testing.T) {
	for _, f := range []ui.Format{ui.FormatAuto, ui.FormatTerminal, ui.FormatText, ui.FormatJSON} {
		t.Run(f.String(), func(t *testing.T) {
			r, err := ui.NewRenderer(f, &bytes.Buffer{})
			require.NoError(t, err)
			assert.NotNil(t, r)
		})
	}

	_, err := ui.NewRenderer(ui.Format(999), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestTextRenderReport(t *testing.T) {
	var buf bytes.Buffer
	r, err := ui.NewRenderer(ui.FormatText, &buf)
	require.NoError(t, err)

	require.NoError(t, r.RenderResult(sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "install\n")
	assert.Contains(t, out, "/home/me/.zshrc")
	assert.Contains(t, out, "copied 17 bytes")
	assert.Contains(t, out, "skipped existing file")
	assert.NotContains(t, out, "directory ensured")
	assert.Contains(t, out, "install: 2 done, 1 skipped, 0 failed")
	assert.NotContains(t, out, "\x1b[")
}

func TestTextRenderEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	r, _ := ui.NewRenderer(ui.FormatText, &buf)

	require.NoError(t, r.RenderResult(&dots.Report{Command: "uninstall", DryRun: true}))
	assert.Equal(t, "uninstall (dry run)\nnothing to do\n", buf.String())
}

func TestTextRenderDoctor(t *testing.T) {
	var buf bytes.Buffer
	r, _ := ui.NewRenderer(ui.FormatText, &buf)

	require.NoError(t, r.RenderResult(sampleDoctor()))
	out := buf.String()
	assert.Contains(t, out, "differs: not a symlink")
	assert.Contains(t, out, "doctor: 1 ok, 1 differs")
}

func TestTextRenderError(t *testing.T) {
	t.Run("diagnostics", func(t *testing.T) {
		var buf bytes.Buffer
		r, _ := ui.NewRenderer(ui.FormatText, &buf)

		err := errors.Wrap(sampleDiagnostics(), errors.ErrConfigInvalid, "failed to load dotfiles.kdl")
		require.NoError(t, r.RenderError(err))
		out := buf.String()
		assert.Contains(t, out, "Error: [CONFIG_INVALID] failed to load dotfiles.kdl")
		assert.Contains(t, out, "unknown action: frob")
		assert.Contains(t, out, "frob \"x\"")
		assert.Contains(t, out, "expected one of cp, ln, alias")
	})

	t.Run("help detail", func(t *testing.T) {
		var buf bytes.Buffer
		r, _ := ui.NewRenderer(ui.FormatText, &buf)

		err := errors.New(errors.ErrBundleNotFound, "bundle not found: git").
			WithDetail("help", "expected one of zsh, nvim")
		require.NoError(t, r.RenderError(err))
		assert.Equal(t, "Error: [BUNDLE_NOT_FOUND] bundle not found: git\nhelp: expected one of zsh, nvim\n", buf.String())
	})

	t.Run("plain error", func(t *testing.T) {
		var buf bytes.Buffer
		r, _ := ui.NewRenderer(ui.FormatText, &buf)

		require.NoError(t, r.RenderError(stderrors.New("boom")))
		assert.Equal(t, "Error: boom\n", buf.String())
	})
}

func TestTerminalRender(t *testing.T) {
	var buf bytes.Buffer
	r, _ := ui.NewRenderer(ui.FormatTerminal, &buf)

	require.NoError(t, r.RenderResult(sampleReport()))
	out := buf.String()
	assert.Contains(t, out, "/home/me/.zshrc")
	assert.Contains(t, out, "copied 17 bytes")
	assert.Contains(t, out, "install: 2 done, 1 skipped, 0 failed")

	buf.Reset()
	require.NoError(t, r.RenderError(sampleDiagnostics()))
	assert.Contains(t, buf.String(), "unknown action: frob")

	buf.Reset()
	require.NoError(t, r.RenderWarnings(nil))
	assert.Empty(t, buf.String())
}

func TestJSONRenderReport(t *testing.T) {
	var buf bytes.Buffer
	r, _ := ui.NewRenderer(ui.FormatJSON, &buf)

	require.NoError(t, r.RenderResult(sampleReport()))

	var got struct {
		Command string `json:"command"`
		DryRun  bool   `json:"dry_run"`
		Failed  int    `json:"failed"`
		Entries []struct {
			Bundle      string `json:"bundle"`
			Op          string `json:"op"`
			Destination string `json:"destination"`
			Depth       int    `json:"depth"`
			IsDir       bool   `json:"is_dir"`
			Outcome     string `json:"outcome"`
			Result      string `json:"result"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "install", got.Command)
	assert.Equal(t, 0, got.Failed)
	require.Len(t, got.Entries, 3)
	assert.Equal(t, "cp", got.Entries[0].Op)
	assert.Equal(t, "done", got.Entries[0].Outcome)
	assert.Equal(t, "copied 17 bytes", got.Entries[0].Result)
	assert.True(t, got.Entries[1].IsDir)
	assert.Equal(t, 1, got.Entries[2].Depth)
	assert.Equal(t, "skipped", got.Entries[2].Outcome)
}

func TestJSONRenderDoctor(t *testing.T) {
	var buf bytes.Buffer
	r, _ := ui.NewRenderer(ui.FormatJSON, &buf)

	require.NoError(t, r.RenderResult(sampleDoctor()))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, false, got["healthy"])
	checks := got["checks"].([]interface{})
	require.Len(t, checks, 2)
	assert.Equal(t, "not a symlink", checks[1].(map[string]interface{})["detail"])
}

func TestJSONRenderError(t *testing.T) {
	var buf bytes.Buffer
	r, _ := ui.NewRenderer(ui.FormatJSON, &buf)

	err := errors.Wrap(sampleDiagnostics(), errors.ErrConfigInvalid, "failed to load dotfiles.kdl")
	require.NoError(t, r.RenderError(err))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "CONFIG_INVALID", got["code"])
	diags := got["diagnostics"].([]interface{})
	require.Len(t, diags, 1)
	d := diags[0].(map[string]interface{})
	assert.Equal(t, "unknown action: frob", d["message"])
	assert.Equal(t, "19:+4", d["span"])
	assert.Equal(t, "unknown variant", d["kind"])

	buf.Reset()
	require.NoError(t, r.RenderMessage("hello"))
	assert.JSONEq(t, `{"message":"hello"}`, buf.String())
}

func TestJSONRenderWarnings(t *testing.T) {
	var buf bytes.Buffer
	r, _ := ui.NewRenderer(ui.FormatJSON, &buf)

	require.NoError(t, r.RenderWarnings(sampleDiagnostics()))
	var got map[string][]map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "unknown action: frob", got["warnings"][0]["message"])
}

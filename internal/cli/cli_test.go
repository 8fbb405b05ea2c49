// internal/cli/cli_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: in-memory filesystem, temp settings and state dirs
// PURPOSE: Test the command tree end to end

package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dots/pkg/cobrax/topics"
	"github.com/arthur-debert/dots/pkg/filesystem"
)

const document = `
dotfiles_dir "/df"
env HOME "/home/me"
env export EDITOR=nvim
bundle "zsh" {
    cp "zshrc" "${HOME}/.zshrc"
    alias ll="ls -l"
}
bundle "nvim" {
    ln "nvim" "${HOME}/.config/nvim"
}
`

const invalidDocument = `dotfiles_dir "/df"
bundle "zsh" {
    cp "zshrc" "${NOPE}/.zshrc"
}
`

type result struct {
	code   int
	stdout string
	stderr string
}

func setupFS(t *testing.T, src string) filesystem.FS {
	t.Helper()
	t.Setenv("DOTS_CONFIG_DIR", t.TempDir())
	t.Setenv("DOTS_STATE_DIR", t.TempDir())
	t.Setenv("NO_COLOR", "1")

	fsys := filesystem.NewMem()
	files := map[string]string{
		"/df/zshrc":         "export ZDOTDIR=~\n",
		"/df/nvim/init.lua": "-- init\n",
		"/cfg/dotfiles.kdl": src,
	}
	for path, content := range files {
		require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0644))
	}
	return fsys
}

func execute(fsys filesystem.FS, args ...string) result {
	var out, errOut bytes.Buffer
	code := run(fsys, args, &out, &errOut)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func TestInstall(t *testing.T) {
	fsys := setupFS(t, document)

	res := execute(fsys, "install", "-c", "/cfg/dotfiles.kdl")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "copied 17 bytes")
	assert.Contains(t, res.stdout, "/home/me/.config/nvim/init.lua")
	assert.Contains(t, res.stdout, "install: 3 done, 0 failed")

	content, err := afero.ReadFile(fsys, "/home/me/.zshrc")
	require.NoError(t, err)
	assert.Equal(t, "export ZDOTDIR=~\n", string(content))

	target, err := fsys.Readlink("/home/me/.config/nvim/init.lua")
	require.NoError(t, err)
	assert.Equal(t, "/df/nvim/init.lua", target)

	res = execute(fsys, "up", "-c", "/cfg/dotfiles.kdl", "zsh")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "skipped existing file")
	assert.NotContains(t, res.stdout, "nvim")
}

func TestInstallDryRun(t *testing.T) {
	fsys := setupFS(t, document)

	res := execute(fsys, "install", "-c", "/cfg/dotfiles.kdl", "--dry-run")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "install (dry run)")
	assert.Contains(t, res.stdout, "dry run, no action taken")

	exists, err := afero.Exists(fsys, "/home/me/.zshrc")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUninstallAndDoctor(t *testing.T) {
	fsys := setupFS(t, document)
	require.Equal(t, 0, execute(fsys, "install", "-c", "/cfg/dotfiles.kdl").code)

	res := execute(fsys, "doctor", "-c", "/cfg/dotfiles.kdl")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "doctor: 2 ok")

	res = execute(fsys, "uninstall", "-c", "/cfg/dotfiles.kdl")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "removed")

	res = execute(fsys, "doctor", "-c", "/cfg/dotfiles.kdl")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stdout, "doctor: 2 missing")
	assert.Contains(t, res.stderr, "[ACTION_EXECUTE] 2 of 2 destinations need attention")
}

func TestBundlesFlag(t *testing.T) {
	fsys := setupFS(t, document)

	res := execute(fsys, "install", "-c", "/cfg/dotfiles.kdl", "--bundles", "nvim")
	require.Equal(t, 0, res.code, res.stderr)
	assert.NotContains(t, res.stdout, ".zshrc")

	res = execute(fsys, "install", "-c", "/cfg/dotfiles.kdl", "--bundles", "git")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "[BUNDLE_NOT_FOUND] bundle not found: git")
	assert.Contains(t, res.stderr, "help: expected `zsh` or `nvim`")
}

func TestBundlesFromEnvironment(t *testing.T) {
	fsys := setupFS(t, document)
	t.Setenv("DOTS_BUNDLES", "zsh")

	res := execute(fsys, "install", "-c", "/cfg/dotfiles.kdl")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, ".zshrc")
	assert.NotContains(t, res.stdout, "init.lua")
}

func TestConfigErrors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		fsys := setupFS(t, document)
		res := execute(fsys, "install", "-c", "/nope/dotfiles.kdl")
		assert.Equal(t, 1, res.code)
		assert.Contains(t, res.stderr, "[CONFIG_NOT_FOUND] config not found: /nope/dotfiles.kdl")
	})

	t.Run("diagnostic", func(t *testing.T) {
		fsys := setupFS(t, invalidDocument)
		res := execute(fsys, "install", "-c", "/cfg/dotfiles.kdl")
		assert.Equal(t, 1, res.code)
		assert.Contains(t, res.stderr, "Error: [CONFIG_INVALID]")
		assert.Contains(t, res.stderr, "error[dots::config]")
		assert.Contains(t, res.stderr, "/cfg/dotfiles.kdl:3:")
	})

	t.Run("json output", func(t *testing.T) {
		fsys := setupFS(t, invalidDocument)
		res := execute(fsys, "install", "-c", "/cfg/dotfiles.kdl", "-o", "json")
		assert.Equal(t, 1, res.code)

		var got map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(res.stderr), &got))
		assert.Equal(t, "CONFIG_INVALID", got["code"])
		assert.Len(t, got["diagnostics"], 1)
		assert.Contains(t, res.stderr, "NOPE")
	})

	t.Run("invalid output setting", func(t *testing.T) {
		fsys := setupFS(t, document)
		res := execute(fsys, "install", "-c", "/cfg/dotfiles.kdl", "-o", "xml")
		assert.Equal(t, 1, res.code)
		assert.Contains(t, res.stderr, "[SETTINGS_LOAD] invalid settings")
	})
}

func TestShellInit(t *testing.T) {
	fsys := setupFS(t, document)

	res := execute(fsys, "shell-init", "-c", "/cfg/dotfiles.kdl", "--shell", "fish")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "# generated by dots for fish\nset -gx EDITOR 'nvim'\nalias ll 'ls -l'\n", res.stdout)

	t.Setenv("SHELL", "/bin/zsh")
	res = execute(fsys, "shell-init", "-c", "/cfg/dotfiles.kdl")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "# generated by dots for zsh\nexport EDITOR='nvim'\nalias ll='ls -l'\n", res.stdout)
}

func TestConfigShow(t *testing.T) {
	fsys := setupFS(t, document)

	res := execute(fsys, "config", "show", "-c", "/cfg/dotfiles.kdl")
	require.Equal(t, 0, res.code, res.stderr)
	var view map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &view))
	assert.Equal(t, "/df", view["dotfiles_dir"])

	res = execute(fsys, "config", "show", "-c", "/cfg/dotfiles.kdl", "--format", "yaml")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "dotfiles_dir: /df")

	res = execute(fsys, "config", "show", "-c", "/cfg/dotfiles.kdl", "--format", "ini")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "[EXPORT]")

	res = execute(fsys, "config", "defaults")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, `link_mode = "symlink"`)
}

func TestMiscCommands(t *testing.T) {
	fsys := setupFS(t, document)

	res := execute(fsys, "version")
	require.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "dots version dev")

	res = execute(fsys, "topics")
	require.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "  syntax\n")
	assert.Contains(t, res.stdout, "  --dry-run\n")

	res = execute(fsys, "completion", "bash")
	require.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "bash completion V2 for dots")

	res = execute(fsys, "man")
	require.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, ".TH \"DOTS\" \"1\"")

	res = execute(fsys)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "no command specified")
}

func TestOverridesOnlyChangedFlags(t *testing.T) {
	cmd, rt := newRoot(nil)
	install, _, err := cmd.Find([]string{"install"})
	require.NoError(t, err)
	require.NoError(t, install.ParseFlags([]string{"--force", "-vv", "--bundles", "a,b"}))

	assert.Equal(t, map[string]interface{}{
		"force":     true,
		"verbosity": 2,
		"bundles":   []string{"a", "b"},
	}, rt.overrides(install))
}

func TestHelpTopicStyleFollowsOutput(t *testing.T) {
	fsys := setupFS(t, document)
	tests := []struct {
		output string
		plain  bool
	}{
		{"text", true},
		{"json", true},
		{"term", false},
	}
	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			cmd, rt := newRoot(fsys)
			var out, errOut bytes.Buffer
			cmd.SetArgs([]string{"help", "syntax", "-o", tt.output})
			cmd.SetOut(&out)
			cmd.SetErr(&errOut)
			require.NoError(t, cmd.Execute(), errOut.String())

			assert.Equal(t, topics.StyleFor(tt.plain), rt.markdown.Style)
			if tt.plain {
				assert.Contains(t, out.String(), "Document syntax")
				assert.NotContains(t, out.String(), "\x1b[")
			}
		})
	}
}

package paths

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/arthur-debert/dots/pkg/errors"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for dots
	EnvConfigDir = "DOTS_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for dots
	EnvStateDir = "DOTS_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// AppDirName is the directory name used under each XDG base directory
	AppDirName = "dots"

	// DefaultConfigFile is the configuration document looked up when none is given
	DefaultConfigFile = "dotfiles.kdl"

	// SettingsFileName is the name of the user settings file
	SettingsFileName = "settings.toml"

	// LogFileName is the name of the log file
	LogFileName = "dots.log"
)

// Paths gives every location dots needs for one run.
type Paths interface {
	ConfigFile() string
	ConfigFileDir() string
	UsedFallback() bool
	ConfigDir() string
	StateDir() string
	SettingsPath() string
	LogFilePath() string
}

type paths struct {
	// configFile is the absolute path of the configuration document
	configFile string

	// usedFallback is set when discovery found nothing and fell back to cwd
	usedFallback bool

	configDir string
	stateDir  string
}

// New creates a Paths for the given configuration document. An empty
// configFile triggers discovery.
func New(configFile string) (Paths, error) {
	p := &paths{
		configDir: ConfigDir(),
		stateDir:  StateDir(),
	}

	if configFile == "" {
		found, usedFallback, err := findConfigFile()
		if err != nil {
			return nil, err
		}
		p.configFile = found
		p.usedFallback = usedFallback
	} else {
		p.configFile = ExpandHome(configFile)
	}

	abs, err := filepath.Abs(p.configFile)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", p.configFile)
	}
	p.configFile = abs
	return p, nil
}

// ConfigDir returns the dots config directory, honoring DOTS_CONFIG_DIR.
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return ExpandHome(dir)
	}
	return filepath.Join(xdg.ConfigHome, AppDirName)
}

// StateDir returns the dots state directory, honoring DOTS_STATE_DIR.
func StateDir() string {
	if dir := os.Getenv(EnvStateDir); dir != "" {
		return ExpandHome(dir)
	}
	return filepath.Join(xdg.StateHome, AppDirName)
}

// SettingsPath returns the location of settings.toml.
func SettingsPath() string {
	return filepath.Join(ConfigDir(), SettingsFileName)
}

// LogFilePath returns the location of the log file.
func LogFilePath() string {
	return filepath.Join(StateDir(), LogFileName)
}

// findConfigFile looks for dotfiles.kdl in:
// 1. the current working directory
// 2. the root of the enclosing git repository
// and falls back to cwd/dotfiles.kdl when neither has one.
func findConfigFile() (string, bool, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrap(err, errors.ErrFileAccess, "failed to get current directory")
	}

	candidate := filepath.Join(cwd, DefaultConfigFile)
	if isFile(candidate) {
		return candidate, false, nil
	}

	if gitRoot, err := findGitRoot(); err == nil {
		candidate := filepath.Join(gitRoot, DefaultConfigFile)
		if isFile(candidate) {
			return candidate, false, nil
		}
	}

	return filepath.Join(cwd, DefaultConfigFile), true, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// findGitRoot asks git for the top level of the current repository.
func findGitRoot() (string, error) {
	output, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", err
	}
	gitRoot := strings.TrimSpace(string(output))
	if gitRoot == "" {
		return "", errors.New(errors.ErrFileAccess, "git root is empty")
	}
	return gitRoot, nil
}

// ExpandHome expands a leading ~ or ~/ to the home directory. ~user forms
// are returned unchanged.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}

func (p *paths) ConfigFile() string {
	return p.configFile
}

// ConfigFileDir is the directory relative dotfiles_dir values resolve against.
func (p *paths) ConfigFileDir() string {
	return filepath.Dir(p.configFile)
}

// UsedFallback reports whether discovery found no document.
func (p *paths) UsedFallback() bool {
	return p.usedFallback
}

func (p *paths) ConfigDir() string {
	return p.configDir
}

func (p *paths) StateDir() string {
	return p.stateDir
}

func (p *paths) SettingsPath() string {
	return filepath.Join(p.configDir, SettingsFileName)
}

func (p *paths) LogFilePath() string {
	return filepath.Join(p.stateDir, LogFileName)
}

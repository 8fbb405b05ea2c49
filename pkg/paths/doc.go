// Package paths locates the files dots reads and writes.
//
// It handles:
//
//   - Discovery of the configuration document (dotfiles.kdl)
//   - The dots config directory holding settings.toml
//   - The dots state directory holding the log file
//   - Tilde expansion for user supplied paths
//
// # Environment Variables
//
//   - DOTS_CONFIG_DIR: Override the config directory (default: $XDG_CONFIG_HOME/dots)
//   - DOTS_STATE_DIR: Override the state directory (default: $XDG_STATE_HOME/dots)
//
// # Configuration document discovery
//
// When no document is given explicitly, dots looks for dotfiles.kdl in the
// current directory, then at the root of the enclosing git repository, and
// finally falls back to the current directory path so that the caller can
// report a CONFIG_NOT_FOUND error naming it.
//
// # Usage
//
//	p, err := paths.New("")
//	if err != nil {
//	    return err
//	}
//	doc := p.ConfigFile()   // /home/user/dotfiles/dotfiles.kdl
//	logs := p.LogFilePath() // /home/user/.local/state/dots/dots.log
package paths

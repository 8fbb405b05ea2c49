package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort       = "Install dotfiles described by a KDL document"
	MsgInstallShort    = "Copy and link the files of the selected bundles"
	MsgUninstallShort  = "Remove the files installed by the selected bundles"
	MsgDoctorShort     = "Check installed files against the document"
	MsgConfigShort     = "Inspect the resolved configuration"
	MsgConfigShowShort = "Print the resolved configuration"
	MsgDefaultsShort   = "Print the built-in settings"
	MsgShellInitShort  = "Print the shell integration script"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgTopicsShort     = "List the available help topics"
	MsgManShort        = "Generate man pages"

	// Flag descriptions
	MsgFlagConfig    = "Configuration document (default: discovered dotfiles.kdl)"
	MsgFlagBundles   = "Comma-separated bundles to act on (default: all)"
	MsgFlagDryRun    = "Report what would change without touching the filesystem"
	MsgFlagForce     = "Replace existing destinations"
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagOutput    = "Output format: auto, term, text or json"
	MsgFlagShell     = "Shell to generate for (default: basename of $SHELL)"
	MsgFlagExportFmt = "Export format: json, yaml or toml"

	// Errors
	MsgErrEntriesFailed = "%d of %d entries failed"
	MsgErrUnhealthy     = "%d of %d destinations need attention"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/install-long.txt
	msgInstallLongRaw string
	MsgInstallLong    = strings.TrimSpace(msgInstallLongRaw)

	//go:embed msgs/install-example.txt
	msgInstallExampleRaw string
	MsgInstallExample    = strings.TrimRight(msgInstallExampleRaw, "\n")

	//go:embed msgs/uninstall-long.txt
	msgUninstallLongRaw string
	MsgUninstallLong    = strings.TrimSpace(msgUninstallLongRaw)

	//go:embed msgs/doctor-long.txt
	msgDoctorLongRaw string
	MsgDoctorLong    = strings.TrimSpace(msgDoctorLongRaw)

	//go:embed msgs/shell-init-long.txt
	msgShellInitLongRaw string
	MsgShellInitLong    = strings.TrimSpace(msgShellInitLongRaw)

	//go:embed msgs/shell-init-example.txt
	msgShellInitExampleRaw string
	MsgShellInitExample    = strings.TrimRight(msgShellInitExampleRaw, "\n")

	//go:embed msgs/config-show-long.txt
	msgConfigShowLongRaw string
	MsgConfigShowLong    = strings.TrimSpace(msgConfigShowLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"

	//go:embed msgs/fallback-warning.txt
	msgFallbackWarningRaw string
	MsgFallbackWarning    = strings.TrimSpace(msgFallbackWarningRaw)
)

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/dots/internal/version"
	"github.com/arthur-debert/dots/pkg/config"
	"github.com/arthur-debert/dots/pkg/dots"
	"github.com/arthur-debert/dots/pkg/errors"
	"github.com/arthur-debert/dots/pkg/logging"
	"github.com/arthur-debert/dots/pkg/settings"
)

// completeBundles offers the bundle names of the document that are not
// already on the command line.
func (rt *runtime) completeBundles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if err := rt.loadSettings(cmd); err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	rt.settings.Bundles = nil
	d, err := rt.open(nil)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	taken := make(map[string]bool, len(args))
	for _, a := range args {
		taken[a] = true
	}
	var names []string
	for _, b := range d.Bundles() {
		if !taken[b.Name] {
			names = append(names, b.Name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// finish renders report and turns failed entries into the command error.
func (rt *runtime) finish(report *dots.Report) error {
	if err := rt.out.RenderResult(report); err != nil {
		return err
	}
	if failed := report.Failed(); len(failed) > 0 {
		return errors.Newf(errors.ErrActionExecute, MsgErrEntriesFailed, len(failed), len(report.Entries))
	}
	return nil
}

func newInstallCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:               "install [bundles...]",
		Aliases:           []string{"up"},
		Short:             MsgInstallShort,
		Long:              MsgInstallLong,
		Example:           MsgInstallExample,
		GroupID:           "core",
		ValidArgsFunction: rt.completeBundles,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := rt.open(args)
			if err != nil {
				return err
			}
			done := logging.LogOperationStart(rt.logger, "install")
			report, err := d.Install()
			done()
			if err != nil {
				return err
			}
			return rt.finish(report)
		},
	}
}

func newUninstallCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:               "uninstall [bundles...]",
		Aliases:           []string{"down"},
		Short:             MsgUninstallShort,
		Long:              MsgUninstallLong,
		GroupID:           "core",
		ValidArgsFunction: rt.completeBundles,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := rt.open(args)
			if err != nil {
				return err
			}
			done := logging.LogOperationStart(rt.logger, "uninstall")
			report, err := d.Uninstall()
			done()
			if err != nil {
				return err
			}
			return rt.finish(report)
		},
	}
}

func newDoctorCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:               "doctor [bundles...]",
		Short:             MsgDoctorShort,
		Long:              MsgDoctorLong,
		GroupID:           "core",
		ValidArgsFunction: rt.completeBundles,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := rt.open(args)
			if err != nil {
				return err
			}
			report, err := d.Doctor()
			if err != nil {
				return err
			}
			if err := rt.out.RenderResult(report); err != nil {
				return err
			}
			if !report.Healthy() {
				bad := len(report.Checks) - report.Count(dots.StateOK)
				return errors.Newf(errors.ErrActionExecute, MsgErrUnhealthy, bad, len(report.Checks))
			}
			return nil
		},
	}
}

func newShellInitCmd(rt *runtime) *cobra.Command {
	var shell string
	cmd := &cobra.Command{
		Use:               "shell-init [bundles...]",
		Short:             MsgShellInitShort,
		Long:              MsgShellInitLong,
		Example:           MsgShellInitExample,
		GroupID:           "core",
		ValidArgsFunction: rt.completeBundles,
		RunE: func(cmd *cobra.Command, args []string) error {
			if shell == "" {
				if s := os.Getenv("SHELL"); s != "" {
					shell = filepath.Base(s)
				}
			}
			d, err := rt.open(args)
			if err != nil {
				return err
			}
			script, err := d.ShellInit(config.ParseShell(shell))
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), script)
			return err
		},
	}
	cmd.Flags().StringVar(&shell, "shell", "", MsgFlagShell)
	_ = cmd.RegisterFlagCompletionFunc("shell", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, len(config.KnownShells))
		for i, s := range config.KnownShells {
			names[i] = string(s)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func newConfigCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "core",
	}

	var format string
	show := &cobra.Command{
		Use:               "show [bundles...]",
		Short:             MsgConfigShowShort,
		Long:              MsgConfigShowLong,
		ValidArgsFunction: rt.completeBundles,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := rt.open(args)
			if err != nil {
				return err
			}
			data, err := d.Export(format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	show.Flags().StringVarP(&format, "format", "f", "json", MsgFlagExportFmt)
	_ = show.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(dots.ExportFormats, cobra.ShellCompDirectiveNoFileComp))

	defaults := &cobra.Command{
		Use:   "defaults",
		Short: MsgDefaultsShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), settings.Defaults())
			return err
		},
	}

	cmd.AddCommand(show, defaults)
	return cmd
}

func newTopicsCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if rt.topics == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No help topics available.")
				return
			}
			rt.topics.WriteIndex(cmd.OutOrStdout(), cmd.Root().Name())
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.String())
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

func manHeader() *doc.GenManHeader {
	return &doc.GenManHeader{
		Title:   "DOTS",
		Section: "1",
		Source:  "dots " + version.Version,
		Manual:  "dots manual",
	}
}

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "man [dir]",
		Short:   MsgManShort,
		Long:    "Write the dots man page to stdout, or one page per command into dir.",
		GroupID: "misc",
		Hidden:  true,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return doc.GenManTree(cmd.Root(), manHeader(), args[0])
			}
			return doc.GenMan(cmd.Root(), manHeader(), cmd.OutOrStdout())
		},
	}
}

// GenMan writes the root man page to w.
func GenMan(root *cobra.Command, w io.Writer) error {
	return doc.GenMan(root, manHeader(), w)
}

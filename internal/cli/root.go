// Package cli builds the dots command tree.
package cli

import (
	"embed"
	stderrors "errors"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/dots/internal/version"
	"github.com/arthur-debert/dots/pkg/cobrax/topics"
	"github.com/arthur-debert/dots/pkg/diagnostics"
	"github.com/arthur-debert/dots/pkg/dots"
	"github.com/arthur-debert/dots/pkg/errors"
	"github.com/arthur-debert/dots/pkg/filesystem"
	"github.com/arthur-debert/dots/pkg/logging"
	"github.com/arthur-debert/dots/pkg/paths"
	"github.com/arthur-debert/dots/pkg/settings"
	"github.com/arthur-debert/dots/pkg/ui"
)

//go:embed topics/*.md
var topicFS embed.FS

type globalFlags struct {
	config    string
	bundles   []string
	dryRun    bool
	force     bool
	verbosity int
	output    string
}

// runtime is the state shared by the commands of one invocation. It is
// filled in by the root pre-run hook.
type runtime struct {
	flags    globalFlags
	fs       filesystem.FS
	settings *settings.Settings
	out      ui.Renderer
	errOut   ui.Renderer
	topics   *topics.TopicManager
	markdown *topics.GlamourRenderer
	logger   zerolog.Logger
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	cmd, _ := newRoot(nil)
	return cmd
}

// Execute runs the command line and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	return run(nil, args, stdout, stderr)
}

func run(fsys filesystem.FS, args []string, stdout, stderr io.Writer) int {
	cmd, rt := newRoot(fsys)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		rt.reportError(stderr, err)
		return 1
	}
	return 0
}

func newRoot(fsys filesystem.FS) (*cobra.Command, *runtime) {
	initTemplateFormatting()

	rt := &runtime{fs: fsys, logger: logging.GetLogger("cli")}

	rootCmd := &cobra.Command{
		Use:     "dots",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.setup(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, "no command specified")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&rt.flags.config, "config", "c", "", MsgFlagConfig)
	flags.StringSliceVar(&rt.flags.bundles, "bundles", nil, MsgFlagBundles)
	flags.BoolVar(&rt.flags.dryRun, "dry-run", false, MsgFlagDryRun)
	flags.BoolVar(&rt.flags.force, "force", false, MsgFlagForce)
	flags.CountVarP(&rt.flags.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVarP(&rt.flags.output, "output", "o", "", MsgFlagOutput)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newInstallCmd(rt))
	rootCmd.AddCommand(newUninstallCmd(rt))
	rootCmd.AddCommand(newDoctorCmd(rt))
	rootCmd.AddCommand(newShellInitCmd(rt))
	rootCmd.AddCommand(newConfigCmd(rt))
	rootCmd.AddCommand(newTopicsCmd(rt))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	rt.markdown = topics.NewGlamourRenderer()
	tm, err := topics.InitializeWithOptions(rootCmd, topics.FromFS(topicFS), "topics", topics.Options{
		Extensions: []string{".md"},
		Renderer:   rt.markdown,
	})
	if err != nil {
		rt.logger.Warn().Err(err).Msg("Failed to load help topics")
	}
	rt.topics = tm
	rootCmd.SetHelpCommandGroupID("misc")

	return rootCmd, rt
}

// overrides returns the settings set by flags on this command line.
func (rt *runtime) overrides(cmd *cobra.Command) map[string]interface{} {
	flags := cmd.Flags()
	m := map[string]interface{}{}
	if flags.Changed("config") {
		m["config"] = rt.flags.config
	}
	if flags.Changed("bundles") {
		m["bundles"] = rt.flags.bundles
	}
	if flags.Changed("dry-run") {
		m["dry_run"] = rt.flags.dryRun
	}
	if flags.Changed("force") {
		m["force"] = rt.flags.force
	}
	if flags.Changed("verbose") {
		m["verbosity"] = rt.flags.verbosity
	}
	if flags.Changed("output") {
		m["output.format"] = rt.flags.output
	}
	return m
}

func (rt *runtime) loadSettings(cmd *cobra.Command) error {
	s, err := settings.Load(settings.WithOverrides(rt.overrides(cmd)))
	if err != nil {
		return err
	}
	rt.settings = s
	return nil
}

func (rt *runtime) setup(cmd *cobra.Command, args []string) error {
	if err := rt.loadSettings(cmd); err != nil {
		return err
	}
	logging.SetupLogger(rt.settings.EffectiveVerbosity())
	rt.logger = logging.GetLogger("cli")
	logging.LogCommand(cmd.CommandPath(), args)

	format, err := ui.ParseFormat(rt.settings.Output.Format)
	if err != nil {
		return err
	}
	rt.markdown.Style = topics.StyleFor(ui.Resolve(format, cmd.OutOrStdout()) != ui.FormatTerminal)
	if rt.out, err = ui.NewRenderer(format, cmd.OutOrStdout()); err != nil {
		return err
	}
	rt.errOut, err = ui.NewRenderer(format, cmd.ErrOrStderr())
	return err
}

// open loads the configuration document for args, a list of bundles added
// to the configured selection, and prints its warnings.
func (rt *runtime) open(args []string) (*dots.Dots, error) {
	s := rt.settings
	p, err := paths.New(s.Config)
	if err != nil {
		return nil, err
	}
	if p.UsedFallback() {
		rt.logger.Warn().Msgf(MsgFallbackWarning, p.ConfigFile())
	}

	bundles := append(append([]string{}, s.Bundles...), args...)
	rt.logger.Info().
		Str("config", p.ConfigFile()).
		Strs("bundles", bundles).
		Bool("dry_run", s.DryRun).
		Bool("force", s.Force).
		Msg("Loading configuration")

	d, err := dots.Create(dots.Options{
		ConfigPath: p.ConfigFile(),
		Bundles:    bundles,
		DryRun:     s.DryRun,
		Force:      s.Force,
		HardLinks:  s.LinkMode == settings.LinkHardlink,
		Ignore:     s.Walk.Ignore,
		FS:         rt.fs,
	})
	if err != nil {
		return nil, err
	}
	if w := d.Warnings(); w != nil && rt.errOut != nil {
		if err := rt.errOut.RenderWarnings(w); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// reportError renders err on the error renderer, falling back to plain
// text when setup never ran.
func (rt *runtime) reportError(w io.Writer, err error) {
	event := rt.logger.Debug().Str("code", string(errors.GetErrorCode(err)))
	var diag *diagnostics.Error
	if stderrors.As(err, &diag) {
		event = event.Interface("diagnostics", diag.JSONable())
	}
	event.Err(err).Msg("Command failed")

	r := rt.errOut
	if r == nil {
		r, _ = ui.NewRenderer(ui.FormatText, w)
	}
	if rerr := r.RenderError(err); rerr != nil {
		_, _ = io.WriteString(os.Stderr, err.Error()+"\n")
	}
}

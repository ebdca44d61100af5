package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/tempo/api/v1beta1/configs"
	"github.com/macropower/tempo/pkg/engine"
	"github.com/macropower/tempo/pkg/log"
	"github.com/macropower/tempo/pkg/ui"
	"github.com/macropower/tempo/pkg/ui/theme"
)

const (
	cmdExamples = `  # Expand with the profile chosen by the configured selectors:
  tempo "meeting at :now"

  # Force the "greet" profile:
  tempo "h, tem" -p greet

  # Read from stdin:
  echo "h, tem" | tempo - -p greet

  # Show what changed:
  tempo "h, tem" -p greet --diff

  # Open the interactive UI and reload profiles as they change:
  tempo --ui --watch`
)

var errNoInput = errors.New("no input given")

type RunArgs struct {
	*RootArgs

	Input       string
	Profile     string
	UI          bool
	Watch       bool
	Diff        bool
	Choose      bool
	WriteConfig bool
}

func NewRunArgs(rootArgs *RootArgs) *RunArgs {
	return &RunArgs{
		RootArgs: rootArgs,
	}
}

func (ra *RunArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&ra.Profile, "profile", "p", "", "Label of the profile to expand with")
	cmd.Flags().BoolVar(&ra.UI, "ui", false, "Open the interactive UI")
	cmd.Flags().BoolVarP(&ra.Watch, "watch", "w", false, "Watch the profile directory and reload the UI")
	cmd.Flags().BoolVar(&ra.Diff, "diff", false, "Print a unified diff of the input and the output")
	cmd.Flags().BoolVar(&ra.Choose, "choose", false, "Prompt for a profile when none is given")
	cmd.Flags().BoolVar(&ra.WriteConfig, "write-config", false, "Write the default configuration files and exit")

	err := cmd.RegisterFlagCompletionFunc("profile", profileCompletion(ra.RootArgs))
	if err != nil {
		panic(fmt.Errorf("register profile completion: %w", err))
	}
}

func NewRunCmd(ra *RunArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "run [input]",
		Short:             "Default command, can be used explicitly if the input is ambiguous",
		Example:           cmdExamples,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			ra.Input = ""
			if len(args) > 0 {
				ra.Input = args[0]
			}

			return run(cmd, ra, len(args) > 0)
		},
	}
	ra.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func run(cmd *cobra.Command, ra *RunArgs, hasInput bool) error {
	ctx := commandContext(cmd)

	if ra.WriteConfig {
		// Exit early after writing the default config.
		err := configs.WriteDefault(ra.GetConfigPath(), true)
		if err != nil {
			return fmt.Errorf("write config: %w", err)
		}

		slog.InfoContext(ctx, "wrote default configuration", slog.String("path", ra.GetConfigPath()))

		return nil
	}

	stdinTerm := isTerminal(cmd.InOrStdin())
	stdoutTerm := isTerminal(cmd.OutOrStdout())

	if ra.Input == "-" || (!hasInput && !stdinTerm && !ra.UI) {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}

		ra.Input = trimNewline(string(b))
		hasInput = true
	}

	a, err := newApp(ctx, ra.RootArgs)
	if err != nil {
		return err
	}

	if ra.UI || (!hasInput && stdinTerm && stdoutTerm) {
		return runUI(ctx, cmd, ra, a)
	}

	if !hasInput {
		return errNoInput
	}

	if ra.Watch {
		slog.WarnContext(ctx, "--watch has no effect without the UI")
	}

	label := ra.Profile
	if label == "" && ra.Choose && stdinTerm && stdoutTerm {
		label, err = chooseProfile(ctx, a)
		if err != nil {
			return err
		}
	}

	e := a.engine()

	out, err := e.Expand(ctx, ra.Input, label)
	if err != nil {
		return fmt.Errorf("expand %q: %w", ra.Input, err)
	}

	if ra.Diff {
		diff := udiff.Unified("input", "output", ra.Input+"\n", out+"\n")
		mustN(fmt.Fprint(cmd.OutOrStdout(), diff))

		return nil
	}

	mustN(fmt.Fprintln(cmd.OutOrStdout(), out))

	return nil
}

// chooseProfile prompts for a profile label.
func chooseProfile(ctx context.Context, a *app) (string, error) {
	labels := a.profiles.Labels()
	if len(labels) == 0 {
		return "", fmt.Errorf("%w: no profiles in %s", engine.ErrProfileNotFound, a.profileDir)
	}

	var label string

	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Profile").
			Options(huh.NewOptions(labels...)...).
			Value(&label),
	)).WithTheme(theme.HuhTheme(theme.New(a.cfg.UI.Theme)))

	err := form.RunWithContext(ctx)
	if err != nil {
		return "", fmt.Errorf("choose profile: %w", err)
	}

	return label, nil
}

// runUI starts the UI program. Logs are held in a buffer while it runs and
// written to stderr afterwards.
func runUI(ctx context.Context, cmd *cobra.Command, ra *RunArgs, a *app) error {
	logBuf := log.NewCircularBuffer(100)

	logHandler, err := log.CreateHandlerWithStrings(logBuf, ra.LogLevel, ra.LogFormat)
	if err != nil {
		return fmt.Errorf("create log handler: %w", err)
	}

	prev := slog.Default()
	slog.SetDefault(slog.New(logHandler))

	defer func() {
		slog.SetDefault(prev)
		flushLogs(cmd.ErrOrStderr(), logBuf)
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := []ui.ModelOpt{ui.WithInput(ra.Input)}

	label, err := initialProfile(ctx, a, ra)
	if err != nil {
		return err
	}

	if label != "" {
		opts = append(opts, ui.WithProfile(label))
	}

	if ra.Watch {
		events, err := a.watch(ctx)
		if err != nil {
			return err
		}

		opts = append(opts, ui.WithReloads(events))
	}

	m := ui.NewModel(a.cfg.UI, a.profiles, opts...)

	_, err = ui.NewProgram(ctx, m,
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	).Run()
	if err != nil {
		slog.ErrorContext(ctx, "run UI", slog.Any("error", err))

		return fmt.Errorf("ui program failure: %w", err)
	}

	return nil
}

// initialProfile picks the profile the UI opens with. An explicit label must
// exist; otherwise the engine's selection is used when it finds one.
func initialProfile(ctx context.Context, a *app, ra *RunArgs) (string, error) {
	p, err := a.engine().Select(ctx, ra.Input, ra.Profile)
	if err == nil {
		return p.Label(), nil
	}

	if ra.Profile != "" || !errors.Is(err, engine.ErrProfileNotFound) {
		return "", err //nolint:wrapcheck // Already wrapped.
	}

	return "", nil
}

func flushLogs(w io.Writer, buf *log.CircularBuffer) {
	slog.Debug("flush logs to console",
		slog.Int("count", buf.Size()),
		slog.Int("max", buf.Capacity()),
		slog.Bool("truncated", buf.IsFull()),
	)

	_, err := buf.WriteTo(w)
	if err != nil {
		panic(err)
	}
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: fd fits in int.
}

func trimNewline(s string) string {
	s = strings.TrimSuffix(s, "\n")

	return strings.TrimSuffix(s, "\r")
}

// profileCompletion completes profile labels from the configured directory.
func profileCompletion(ra *RootArgs) cobra.CompletionFunc {
	return func(cmd *cobra.Command, _ []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
		a, err := newApp(commandContext(cmd), ra)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		completions := make([]cobra.Completion, 0, a.profiles.Len())
		for _, p := range a.profiles.Profiles() {
			completions = append(completions, cobra.CompletionWithDesc(p.Label(), p.Path()))
		}

		return completions, cobra.ShellCompDirectiveNoFileComp
	}
}

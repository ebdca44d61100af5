package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/macropower/tempo/pkg/engine"
	"github.com/macropower/tempo/pkg/profile"
	"github.com/macropower/tempo/pkg/ui/theme"
)

func NewProfilesCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Inspect the loaded profiles",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(
		newProfilesListCmd(ra),
		newProfilesShowCmd(ra),
	)

	return cmd
}

func newProfilesListCmd(ra *RootArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles with their rule count and source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd)

			a, err := newApp(ctx, ra)
			if err != nil {
				return err
			}

			if a.profiles.Len() == 0 {
				slog.InfoContext(ctx, "no profiles found", slog.String("path", a.profileDir))

				return nil
			}

			th := theme.New(a.cfg.UI.Theme)

			mustN(fmt.Fprintln(cmd.OutOrStdout(), profileTable(a.profiles, th, isTerminal(cmd.OutOrStdout()))))

			return nil
		},
	}
}

func newProfilesShowCmd(ra *RootArgs) *cobra.Command {
	return &cobra.Command{
		Use:               "show <label>",
		Short:             "Print a profile as YAML",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: profileArgCompletion(ra),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			a, err := newApp(ctx, ra)
			if err != nil {
				return err
			}

			p, err := engine.Resolve(a.profiles, args[0])
			if err != nil {
				return err //nolint:wrapcheck // Already names the label.
			}

			b, err := p.MarshalYAML()
			if err != nil {
				return fmt.Errorf("marshal profile yaml: %w", err)
			}

			out := cmd.OutOrStdout()
			if !isTerminal(out) {
				mustN(out.Write(b))

				return nil
			}

			th := theme.New(a.cfg.UI.Theme)

			return highlightYAML(out, string(b), th)
		},
	}
}

// profileTable renders profiles as a table. Styling is skipped when the
// output is not a terminal.
func profileTable(c *profile.Collection, th *theme.Theme, styled bool) string {
	t := table.New().
		Headers("LABEL", "RULES", "PATH", "MODIFIED").
		Border(lipgloss.HiddenBorder())

	if styled {
		t = t.Border(lipgloss.RoundedBorder()).
			BorderStyle(th.SubtleStyle).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return th.TitleStyle.Padding(0, 1)
				}

				return th.TextStyle.Padding(0, 1)
			})
	}

	for _, p := range c.Profiles() {
		t.Row(p.Label(), strconv.Itoa(p.Len()), p.Path(), modified(p.Path()))
	}

	return t.String()
}

func modified(path string) string {
	if path == "" {
		return "-"
	}

	info, err := os.Stat(path)
	if err != nil {
		return "-"
	}

	return humanize.Time(info.ModTime())
}

func highlightYAML(w io.Writer, src string, th *theme.Theme) error {
	err := quick.Highlight(w, src, "yaml", "terminal256", th.Name)
	if err != nil {
		return fmt.Errorf("highlight yaml: %w", err)
	}

	return nil
}

func profileArgCompletion(ra *RootArgs) cobra.CompletionFunc {
	complete := profileCompletion(ra)

	return func(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		return complete(cmd, args, toComplete)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}

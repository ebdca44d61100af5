package cli

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/macropower/tempo/pkg/mcp"
)

type ServeMCPArgs struct {
	*RootArgs

	Address string
	Watch   bool
}

func (sa *ServeMCPArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&sa.Watch, "watch", "w", false, "Watch the profile directory and reload")
}

func NewServeMCPCmd(ra *RootArgs) *cobra.Command {
	sa := &ServeMCPArgs{RootArgs: ra}

	cmd := &cobra.Command{
		Use:   "serve-mcp [address]",
		Short: "Serve the profiles over MCP, on stdio or at an HTTP address",
		Example: `  # Serve over stdio:
  tempo serve-mcp

  # Serve over streamable HTTP and reload on changes:
  tempo serve-mcp localhost:8080 --watch`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				sa.Address = args[0]
			}

			return serveMCP(cmd, sa)
		},
	}
	sa.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func serveMCP(cmd *cobra.Command, sa *ServeMCPArgs) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, sa.RootArgs)
	if err != nil {
		return err
	}

	srv := mcp.NewServer(sa.Address, a.profiles, a.engineOpts...)

	if sa.Watch {
		events, err := a.watch(ctx)
		if err != nil {
			return err
		}

		go srv.Watch(ctx, events)
	}

	slog.DebugContext(ctx, "serving profiles",
		slog.Int("count", a.profiles.Len()),
		slog.Bool("watch", sa.Watch),
	)

	//nolint:wrapcheck // Already wrapped.
	return srv.Serve(ctx)
}

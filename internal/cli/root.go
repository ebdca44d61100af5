package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/tempo/api/v1beta1/configs"
	"github.com/macropower/tempo/pkg/log"
	"github.com/macropower/tempo/pkg/version"
)

const (
	cmdName = "tempo"
	cmdDesc = `Expand text with profiles of replacement rules.`
)

type RootArgs struct {
	LogLevel   string
	LogFormat  string
	ConfigPath string
	ProfileDir string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	cmd.PersistentFlags().
		StringVar(&ra.ConfigPath, "config", "", fmt.Sprintf("Path to the tempo configuration file (default %s)", configs.GetPath()))
	cmd.PersistentFlags().
		StringVar(&ra.ProfileDir, "profile-dir", "", "Directory to load profiles from, overrides the configuration")

	var err error

	err = cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.MarkPersistentFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark config flag: %w", err))
	}

	err = cmd.MarkPersistentFlagDirname("profile-dir")
	if err != nil {
		panic(fmt.Errorf("mark profile-dir flag: %w", err))
	}
}

// GetConfigPath returns the configuration path from the flags, or the
// default path.
func (ra *RootArgs) GetConfigPath() string {
	if ra.ConfigPath != "" {
		return ra.ConfigPath
	}

	return configs.GetPath()
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()
	runArgs := NewRunArgs(args)

	runCmd := NewRunCmd(runArgs)
	cmd := &cobra.Command{
		Use:               cmdName + " [input]",
		Short:             cmdDesc,
		Example:           cmdExamples,
		PersistentPreRunE: setupLogging(args),
		ValidArgsFunction: cobra.NoFileCompletions,
		Args:              runCmd.Args,
		RunE:              runCmd.RunE,
	}

	args.AddFlags(cmd)
	runArgs.AddFlags(cmd)
	cmd.AddCommand(
		runCmd,
		NewProfilesCmd(args),
		NewServeMCPCmd(args),
	)

	bindEnvVars(cmd)

	return cmd
}

func setupLogging(rc *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logHandler, err := log.CreateHandlerWithStrings(cmd.ErrOrStderr(), rc.LogLevel, rc.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(logHandler))
		slog.Debug("build info", slog.String("version", version.String()))

		return nil
	}
}

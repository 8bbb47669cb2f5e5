package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dschmit00/sports-calendar/internal/config"
	appLog "github.com/dschmit00/sports-calendar/internal/log"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

const defaultConfigPath = "sportscal.yaml"

// rootOptions holds persistent flag values shared by every subcommand.
type rootOptions struct {
	configPath string
	teamsPath  string
	output     string
	logLevel   string
}

// NewRootCmd creates the root command. Without a subcommand it generates
// the calendar once.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "sportscal",
		Short: "Build an iCalendar feed of upcoming fixtures for followed teams",
		Long: `sportscal fetches upcoming fixtures for every team in the team list from
TheSportsDB and writes them, de-duplicated, into a single .ics file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			appLog.SetOutput(cmd.OutOrStdout())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", defaultConfigPath, "Path to YAML config file (optional)")
	pf.StringVar(&opts.teamsPath, "teams", "", "Path to team list, .json or .yaml (overrides config)")
	pf.StringVar(&opts.output, "output", "", "Calendar output path (overrides config)")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	cmd.AddCommand(
		newGenerateCmd(opts),
		newWatchCmd(opts),
		newCheckCmd(),
		newInitCmd(opts),
	)

	return cmd
}

// loadConfig builds the effective configuration:
// defaults < config file < environment < flags.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()

	if opts.teamsPath != "" {
		cfg.Teams = opts.teamsPath
	}
	if opts.output != "" {
		cfg.Output = opts.output
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	level, err := appLog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	appLog.SetLevel(level)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	appLog.Debug("effective config",
		"config_path", opts.configPath,
		"teams", cfg.Teams,
		"output", cfg.Output,
		"timezone", cfg.Timezone,
		"uid_domain", cfg.UIDDomain,
		"fetch_timeout", cfg.FetchTimeout.String(),
	)

	return cfg, nil
}

// Execute runs the CLI with SIGINT/SIGTERM canceling the root context.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}

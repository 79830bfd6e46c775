package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/h0rv/linbridge/internal/auth"
	"github.com/h0rv/linbridge/internal/config"
	"github.com/h0rv/linbridge/internal/logging"
	"github.com/h0rv/linbridge/internal/render"
	"github.com/h0rv/linbridge/internal/server"
	"github.com/h0rv/linbridge/internal/service"
)

var (
	// CLI flags
	apiKeyFlag    string
	apiURLFlag    string
	logFormatFlag string
	verboseFlag   bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		render.Error(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "linbridge",
		Short: "Resolve human-readable Linear identifiers to Linear IDs",
		Long: `linbridge translates team keys, project names, user emails, workflow state
and label names, and TEAM-123 issue identifiers into Linear IDs.

Run 'linbridge serve' to expose resolution as MCP tools over stdio, or use
'linbridge resolve' for one-off lookups.

Authentication:
  1. Flag: --api-key
  2. Environment variable: Set LINEAR_API_KEY

Create a personal API key in Linear under Settings > Security & access.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "Linear API key. Overrides LINEAR_API_KEY.")
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "Linear GraphQL endpoint. Overrides LINEAR_API_URL.")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log format on stderr: text or json.")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log at debug level.")

	rootCmd.AddCommand(
		newServeCmd(),
		newResolveCmd(),
		newOpenCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the linbridge version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "linbridge %s\n", server.Version)
		},
	}
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	if apiURLFlag != "" {
		cfg.APIURL = apiURLFlag
	}
	if logFormatFlag != "" {
		cfg.LogFormat = strings.ToLower(logFormatFlag)
	}
	if verboseFlag {
		cfg.LogLevel = slog.LevelDebug
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setup loads configuration, configures logging and builds the service.
// The returned context carries the configured logger.
func setup(ctx context.Context, reg prometheus.Registerer) (context.Context, config.Config, *service.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return ctx, config.Config{}, nil, err
	}

	logger := logging.Configure(cfg)
	ctx = slogcontext.NewCtx(ctx, logger)

	explicit := apiKeyFlag
	if explicit == "" {
		explicit = cfg.APIKey
	}
	token, err := auth.GetToken(explicit)
	if err != nil {
		return ctx, cfg, nil, err
	}

	svc, err := service.FromConfig(cfg, token, reg)
	if err != nil {
		return ctx, cfg, nil, err
	}
	return ctx, cfg, svc, nil
}

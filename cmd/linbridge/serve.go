package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/h0rv/linbridge/internal/metrics"
	"github.com/h0rv/linbridge/internal/server"
)

var metricsAddrFlag string

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the resolution tools over MCP stdio",
		Long: `Start an MCP server on stdin/stdout exposing resolve_team, resolve_project,
resolve_user, resolve_state, resolve_labels, resolve_issue, clear_cache and
cache_stats. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().StringVar(&metricsAddrFlag, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9464). Overrides LINBRIDGE_METRICS_ADDR.")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ctx, cfg, svc, err := setup(cmd.Context(), reg)
	if err != nil {
		return err
	}
	logger := slogcontext.FromCtx(ctx)

	addr := cfg.MetricsAddr
	if metricsAddrFlag != "" {
		addr = metricsAddrFlag
	}
	if addr != "" {
		shutdown := serveMetrics(ctx, addr, reg)
		defer shutdown()
	}

	logger.Info("serving MCP over stdio", "version", server.Version, "endpoint", cfg.APIURL)

	return mcpserver.ServeStdio(server.New(svc),
		mcpserver.WithStdioContextFunc(func(c context.Context) context.Context {
			return slogcontext.NewCtx(c, logger)
		}),
	)
}

// serveMetrics starts the Prometheus endpoint in the background and returns
// a function that stops it.
func serveMetrics(ctx context.Context, addr string, gatherer prometheus.Gatherer) func() {
	logger := slogcontext.FromCtx(ctx)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(gatherer))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err.Error())
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}

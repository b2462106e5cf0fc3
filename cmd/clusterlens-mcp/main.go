package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/clusterlens/clusterlens-mcp/internal/config"
	"github.com/clusterlens/clusterlens-mcp/internal/graph"
	"github.com/clusterlens/clusterlens-mcp/internal/kube"
	"github.com/clusterlens/clusterlens-mcp/internal/logging"
	"github.com/clusterlens/clusterlens-mcp/internal/mcp"
	"github.com/clusterlens/clusterlens-mcp/internal/mcp/tools"
	"github.com/clusterlens/clusterlens-mcp/internal/metrics"
	"github.com/clusterlens/clusterlens-mcp/pkg/jaeger"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Configuration is loaded from environment variables:
	// - TARGET_NAMESPACE: namespace to observe (default: default)
	// - PROMETHEUS_URL, JAEGER_URL, NEO4J_URI: backend endpoints
	// - LOG_LEVEL, LOG_FILE: logging (stdout is reserved for JSON-RPC)
	// - see internal/config for all options
	cfg := config.Load()

	cleanup, err := logging.Setup(logging.Config{
		Level:      cfg.LogLevel,
		FilePath:   cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	})
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	kubeClient, err := kube.NewClient(cfg.TargetNamespace)
	if err != nil {
		slog.Error("failed to create kubernetes client", "error", err)
		os.Exit(1)
	}

	metricsClient, err := metrics.New(cfg.PrometheusURL, cfg.TargetNamespace)
	if err != nil {
		slog.Error("failed to create prometheus client", "error", err)
		os.Exit(1)
	}

	jaegerClient := jaeger.New(
		jaeger.WithBaseURL(cfg.JaegerURL),
		jaeger.WithHTTPClient(&http.Client{Timeout: cfg.HTTPClientTimeout}),
	)

	store, err := graph.Connect(ctx, graph.StoreConfig{
		URI:      cfg.Neo4jURI,
		Username: cfg.Neo4jUser,
		Password: cfg.Neo4jPassword,
	})
	if err != nil {
		slog.Error("failed to connect to graph database", "error", err)
		os.Exit(1)
	}
	defer store.Close(context.Background())

	deps := &tools.Deps{
		Config:  cfg,
		Kube:    kubeClient,
		Metrics: metricsClient,
		Jaeger:  jaegerClient,
		Graph:   graph.NewQueryService(store),
	}

	server, err := mcp.NewServer(deps)
	if err != nil {
		slog.Error("failed to create MCP server", "error", err)
		os.Exit(1)
	}

	slog.Info("starting clusterlens MCP server on stdio",
		slog.String("namespace", cfg.TargetNamespace))
	if err := server.Run(ctx); err != nil && err != context.Canceled {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

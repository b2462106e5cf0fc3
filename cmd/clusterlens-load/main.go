// clusterlens-load populates the service dependency graph. It loads node and
// edge statements from a file, mines CALLS edges from recent Jaeger traces,
// or both, and applies them idempotently so it is safe to re-run.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/clusterlens/clusterlens-mcp/internal/config"
	"github.com/clusterlens/clusterlens-mcp/internal/graph"
	"github.com/clusterlens/clusterlens-mcp/internal/logging"
	"github.com/clusterlens/clusterlens-mcp/pkg/jaeger"
)

func main() {
	var (
		file     = flag.String("file", "", "path to a graph statements file")
		mine     = flag.String("mine", "", "comma-separated services to mine CALLS edges for from recent traces")
		dryRun   = flag.Bool("dry-run", false, "parse and validate statements without writing to the graph")
		showHelp = flag.Bool("help", false, "print usage")
	)
	flag.Parse()

	if *showHelp || (*file == "" && *mine == "") {
		fmt.Fprintln(os.Stderr, "usage: clusterlens-load [-file statements.txt] [-mine svc1,svc2] [-dry-run]")
		flag.PrintDefaults()
		if *showHelp {
			return
		}
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

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

	if err := run(ctx, cfg, *file, *mine, *dryRun); err != nil {
		slog.Error("load failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, file, mine string, dryRun bool) error {
	var stmts []graph.Statement

	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("opening statements file: %w", err)
		}
		parsed, err := graph.ParseStatements(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("parsing %s: %w", file, err)
		}
		slog.Info("parsed statements file", slog.String("file", file), slog.Int("statements", len(parsed)))
		stmts = append(stmts, parsed...)
	}

	if mine != "" {
		jaegerClient := jaeger.New(
			jaeger.WithBaseURL(cfg.JaegerURL),
			jaeger.WithHTTPClient(&http.Client{Timeout: cfg.HTTPClientTimeout}),
		)
		services := strings.Split(mine, ",")
		for i := range services {
			services[i] = strings.TrimSpace(services[i])
		}

		mined, err := graph.MineStatements(ctx, jaegerClient, services)
		if err != nil {
			return fmt.Errorf("mining traces: %w", err)
		}
		slog.Info("mined statements from traces",
			slog.Int("services", len(services)), slog.Int("statements", len(mined)))
		stmts = append(stmts, mined...)
	}

	if dryRun {
		for _, stmt := range stmts {
			fmt.Println(stmt.Text)
		}
		return nil
	}

	store, err := graph.Connect(ctx, graph.StoreConfig{
		URI:      cfg.Neo4jURI,
		Username: cfg.Neo4jUser,
		Password: cfg.Neo4jPassword,
	})
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	result, err := graph.NewBuilder(store).Load(ctx, stmts)
	// Statements applied before a failure stay applied; report progress either way.
	fmt.Printf("statements run: %d\n", result.StatementsRun)
	fmt.Printf("nodes:          %d created, %d already present\n", result.NodesCreated, result.NodesMatched)
	fmt.Printf("edges:          %d created, %d already present\n", result.EdgesCreated, result.EdgesMatched)
	return err
}

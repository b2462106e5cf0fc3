// Package tools implements the MCP tools exposed by the clusterlens server.
//
// Every tool is read-only against its backend. Handlers surface failures as
// typed coded errors and never fold a partial backend failure into a
// successful result silently: per-item errors are reported alongside the
// items that succeeded.
package tools

import (
	"github.com/clusterlens/clusterlens-mcp/internal/config"
	"github.com/clusterlens/clusterlens-mcp/internal/graph"
	"github.com/clusterlens/clusterlens-mcp/internal/kube"
	"github.com/clusterlens/clusterlens-mcp/internal/metrics"
	"github.com/clusterlens/clusterlens-mcp/pkg/jaeger"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Config  *config.Config
	Kube    *kube.Client
	Metrics *metrics.Client
	Jaeger  *jaeger.Client
	Graph   *graph.QueryService
}

package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	// Tool 1: get_cluster_overview
	AddTool(srv, &sdkmcp.Tool{
		Name:        "get_cluster_overview",
		Description: "List all pods and services in the target namespace. Use this first to discover what is running before querying metrics, logs, or traces.",
	}, ToolClusterOverview(d))

	// Tool 2: get_pods_from_service
	AddTool(srv, &sdkmcp.Tool{
		Name:        "get_pods_from_service",
		Description: "Resolve a Kubernetes service to its label selector and list the pods it selects, with their current phase.",
	}, ToolPodsFromService(d))

	// Tool 3: get_metrics
	AddTool(srv, &sdkmcp.Tool{
		Name:        "get_metrics",
		Description: "Fetch the current value of every tracked container metric (CPU, memory, threads, network) for one pod or for each pod behind a service. Pods whose queries fail entirely are reported in errors.",
	}, ToolGetMetrics(d))

	// Tool 4: get_metrics_range
	AddTool(srv, &sdkmcp.Tool{
		Name:        "get_metrics_range",
		Description: "Fetch container metric time series for one pod or for each pod behind a service over a trailing window at a 1m step. Use get_metrics for a single snapshot.",
	}, ToolGetMetricsRange(d))

	// Tool 5: triage_pod
	AddTool(srv, &sdkmcp.Tool{
		Name:        "triage_pod",
		Description: "Run a quick anomaly check on one pod's current metrics: thread saturation, CPU load, and network errors or drops. Returns is_anomalous with human-readable reasons.",
	}, ToolTriagePod(d))

	// Tool 6: get_logs
	AddTool(srv, &sdkmcp.Tool{
		Name:        "get_logs",
		Description: "Tail logs for one pod or for every pod behind a service. Set important_only=true to filter to error/warning/failure lines; when nothing matches, the full tail is returned with a note.",
	}, ToolGetLogs(d))

	// Tool 7: get_problematic_pods
	AddTool(srv, &sdkmcp.Tool{
		Name:        "get_problematic_pods",
		Description: "Scan the namespace for pods in trouble: containers stuck waiting, terminated with a non-zero exit code, restarting frequently, or pods pending unscheduled.",
	}, ToolProblematicPods(d))

	// Tool 8: get_traces
	AddTool(srv, &sdkmcp.Tool{
		Name:        "get_traces",
		Description: "Search recent distributed traces for a service. Each trace is condensed to total latency, error state with extracted messages, and the sequence of services it touched. Filter with only_errors or min_duration_ms to find failures and slow requests.",
	}, ToolGetTraces(d))

	// Tool 9: get_trace
	AddTool(srv, &sdkmcp.Tool{
		Name:        "get_trace",
		Description: "Fetch one trace by ID: the condensed latency/error/sequence view plus per-span detail (service, operation, timing).",
	}, ToolGetTrace(d))

	// Tool 10: get_services_called_by
	AddTool(srv, &sdkmcp.Tool{
		Name:        "get_services_called_by",
		Description: "List the services a given service calls, from the service dependency graph. Returns an empty list for a service with no outgoing calls or one not present in the graph.",
	}, ToolServicesCalledBy(d))

	// Tool 11: get_dependencies
	AddTool(srv, &sdkmcp.Tool{
		Name:        "get_dependencies",
		Description: "List the databases and caches a service uses directly, from the service dependency graph. Only direct dependencies are returned, not those of downstream services.",
	}, ToolDependencies(d))

	// Tool 12: get_service_summary
	AddTool(srv, &sdkmcp.Tool{
		Name:        "get_service_summary",
		Description: "Render a one-line summary of a service: which services it calls and which databases and caches it depends on.",
	}, ToolServiceSummary(d))
}

package tools

import (
	"context"
	"sort"
	"sync"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/clusterlens/clusterlens-mcp/internal/metrics"
)

// metricsFanOutLimit caps concurrent Prometheus queries per tool call.
const metricsFanOutLimit = 4

// MetricsInput is the input for get_metrics. Exactly one of pod_name and
// service_name must be set.
type MetricsInput struct {
	PodName     string `json:"pod_name,omitempty" jsonschema:"pod to collect metrics for (mutually exclusive with service_name)"`
	ServiceName string `json:"service_name,omitempty" jsonschema:"service whose pods to collect metrics for (mutually exclusive with pod_name)"`
}

// MetricsOutput is the output for get_metrics.
type MetricsOutput struct {
	Service string                `json:"service,omitempty"`
	Pods    []*metrics.PodMetrics `json:"pods,omitzero"`
	Errors  map[string]string     `json:"errors,omitempty"`
}

// MetricsRangeInput is the input for get_metrics_range. Exactly one of
// pod_name and service_name must be set.
type MetricsRangeInput struct {
	PodName      string `json:"pod_name,omitempty" jsonschema:"pod to collect metrics for (mutually exclusive with service_name)"`
	ServiceName  string `json:"service_name,omitempty" jsonschema:"service whose pods to collect metrics for (mutually exclusive with pod_name)"`
	RangeMinutes int    `json:"time_range_minutes,omitempty" jsonschema:"trailing window in minutes at a 1m step (default: 60)"`
}

// MetricsRangeOutput is the output for get_metrics_range.
type MetricsRangeOutput struct {
	Service string                     `json:"service,omitempty"`
	Pods    []*metrics.PodMetricsRange `json:"pods,omitzero"`
	Errors  map[string]string          `json:"errors,omitempty"`
}

// TriagePodInput is the input for triage_pod.
type TriagePodInput struct {
	PodName string `json:"pod_name" jsonschema:"name of the pod to triage"`
}

// TriagePodOutput is the output for triage_pod.
type TriagePodOutput struct {
	Triage *metrics.Triage `json:"triage"`
}

// ToolGetMetrics fetches instant metrics for one pod or for every pod
// behind a service. Service pods are queried concurrently; a pod whose
// queries all fail is reported in Errors rather than failing the whole call.
func ToolGetMetrics(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input MetricsInput) (*sdkmcp.CallToolResult, MetricsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input MetricsInput) (*sdkmcp.CallToolResult, MetricsOutput, error) {
		if input.PodName == "" && input.ServiceName == "" {
			return nil, MetricsOutput{}, ErrInvalidInput("pod_name or service_name is required")
		}
		if input.PodName != "" && input.ServiceName != "" {
			return nil, MetricsOutput{}, ErrInvalidInput("pod_name and service_name are mutually exclusive")
		}

		if input.PodName != "" {
			m, err := d.Metrics.PodMetrics(ctx, input.PodName)
			if err != nil {
				return nil, MetricsOutput{}, WrapBackendError(err)
			}
			return nil, MetricsOutput{Pods: []*metrics.PodMetrics{m}}, nil
		}

		pods, err := d.Kube.PodsForService(ctx, input.ServiceName)
		if err != nil {
			return nil, MetricsOutput{}, WrapBackendError(err)
		}

		output := MetricsOutput{Service: input.ServiceName, Pods: []*metrics.PodMetrics{}}
		var mu sync.Mutex
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(metricsFanOutLimit)

		for _, pod := range pods {
			g.Go(func() error {
				m, err := d.Metrics.PodMetrics(gctx, pod.Name)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					if output.Errors == nil {
						output.Errors = make(map[string]string)
					}
					output.Errors[pod.Name] = err.Error()
					return nil
				}
				output.Pods = append(output.Pods, m)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, MetricsOutput{}, WrapBackendError(err)
		}

		sort.Slice(output.Pods, func(i, j int) bool { return output.Pods[i].Pod < output.Pods[j].Pod })
		return nil, output, nil
	}
}

// ToolGetMetricsRange fetches metric time series for one pod or for every
// pod behind a service over a trailing window.
func ToolGetMetricsRange(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input MetricsRangeInput) (*sdkmcp.CallToolResult, MetricsRangeOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input MetricsRangeInput) (*sdkmcp.CallToolResult, MetricsRangeOutput, error) {
		if input.PodName == "" && input.ServiceName == "" {
			return nil, MetricsRangeOutput{}, ErrInvalidInput("pod_name or service_name is required")
		}
		if input.PodName != "" && input.ServiceName != "" {
			return nil, MetricsRangeOutput{}, ErrInvalidInput("pod_name and service_name are mutually exclusive")
		}
		rangeMinutes := input.RangeMinutes
		if rangeMinutes <= 0 {
			rangeMinutes = 60
		}

		if input.PodName != "" {
			m, err := d.Metrics.PodMetricsRange(ctx, input.PodName, rangeMinutes)
			if err != nil {
				return nil, MetricsRangeOutput{}, WrapBackendError(err)
			}
			return nil, MetricsRangeOutput{Pods: []*metrics.PodMetricsRange{m}}, nil
		}

		pods, err := d.Kube.PodsForService(ctx, input.ServiceName)
		if err != nil {
			return nil, MetricsRangeOutput{}, WrapBackendError(err)
		}

		output := MetricsRangeOutput{Service: input.ServiceName, Pods: []*metrics.PodMetricsRange{}}
		var mu sync.Mutex
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(metricsFanOutLimit)

		for _, pod := range pods {
			g.Go(func() error {
				m, err := d.Metrics.PodMetricsRange(gctx, pod.Name, rangeMinutes)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					if output.Errors == nil {
						output.Errors = make(map[string]string)
					}
					output.Errors[pod.Name] = err.Error()
					return nil
				}
				output.Pods = append(output.Pods, m)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, MetricsRangeOutput{}, WrapBackendError(err)
		}

		sort.Slice(output.Pods, func(i, j int) bool { return output.Pods[i].Pod < output.Pods[j].Pod })
		return nil, output, nil
	}
}

// ToolTriagePod checks one pod's instant metrics for anomaly signals.
func ToolTriagePod(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input TriagePodInput) (*sdkmcp.CallToolResult, TriagePodOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input TriagePodInput) (*sdkmcp.CallToolResult, TriagePodOutput, error) {
		if input.PodName == "" {
			return nil, TriagePodOutput{}, ErrInvalidInput("pod_name is required")
		}

		triage, err := d.Metrics.TriagePod(ctx, input.PodName)
		if err != nil {
			return nil, TriagePodOutput{}, WrapBackendError(err)
		}

		return nil, TriagePodOutput{Triage: triage}, nil
	}
}

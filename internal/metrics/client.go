// Package metrics is the Prometheus collaborator: instant and range queries
// for the fixed set of container metrics tracked per pod, plus a quick
// anomaly triage built on the instant values.
package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/api"
	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
)

// containerMetrics is the set of cAdvisor series retrieved per pod.
var containerMetrics = []string{
	// cpu
	"container_cpu_usage_seconds_total",
	"container_cpu_user_seconds_total",
	"container_cpu_system_seconds_total",
	"container_cpu_cfs_throttled_seconds_total",
	"container_cpu_cfs_throttled_periods_total",
	"container_cpu_cfs_periods_total",
	"container_cpu_load_average_10s",
	// memory
	"container_memory_cache",
	"container_memory_usage_bytes",
	"container_memory_working_set_bytes",
	"container_memory_rss",
	"container_memory_mapped_file",
	// spec
	"container_spec_cpu_period",
	"container_spec_cpu_quota",
	"container_spec_memory_limit_bytes",
	"container_spec_cpu_shares",
	// threads
	"container_threads",
	"container_threads_max",
	// network
	"container_network_receive_errors_total",
	"container_network_receive_packets_dropped_total",
	"container_network_receive_packets_total",
	"container_network_receive_bytes_total",
	"container_network_transmit_bytes_total",
	"container_network_transmit_errors_total",
	"container_network_transmit_packets_dropped_total",
	"container_network_transmit_packets_total",
}

// PodMetrics holds instant values per metric for one pod. Metrics absent
// from Prometheus carry a nil value; per-metric query failures are reported
// in Errors rather than dropped.
type PodMetrics struct {
	Namespace string              `json:"resource_namespace"`
	Pod       string              `json:"resource_name"`
	Metrics   map[string]*float64 `json:"metrics"`
	Errors    map[string]string   `json:"errors,omitempty"`
}

// PodMetricsRange holds time-series values per metric for one pod.
type PodMetricsRange struct {
	Namespace    string               `json:"resource_namespace"`
	Pod          string               `json:"resource_name"`
	RangeMinutes int                  `json:"time_range_minutes"`
	Step         string               `json:"step"`
	Metrics      map[string][]float64 `json:"metrics"`
	Errors       map[string]string    `json:"errors,omitempty"`
}

// Client queries a Prometheus server for pod metrics in one namespace.
type Client struct {
	api       promv1.API
	namespace string
}

// New creates a client against the given Prometheus base URL.
func New(url, namespace string) (*Client, error) {
	promClient, err := api.NewClient(api.Config{Address: url})
	if err != nil {
		return nil, fmt.Errorf("creating prometheus client for %s: %w", url, err)
	}
	return &Client{api: promv1.NewAPI(promClient), namespace: namespace}, nil
}

// NewWithAPI wraps an existing query API. Tests use this with a fake.
func NewWithAPI(api promv1.API, namespace string) *Client {
	return &Client{api: api, namespace: namespace}
}

// podSelector matches series for one pod. The pod name is matched as a
// substring so deployment pods keep matching across hash suffixes.
func (c *Client) podSelector(metric, pod string) string {
	return fmt.Sprintf(`%s{namespace=%q, pod=~".*%s.*"}`, metric, c.namespace, pod)
}

// PodMetrics fetches the instant value of every tracked metric for a pod.
func (c *Client) PodMetrics(ctx context.Context, pod string) (*PodMetrics, error) {
	result := &PodMetrics{
		Namespace: c.namespace,
		Pod:       pod,
		Metrics:   make(map[string]*float64, len(containerMetrics)),
		Errors:    make(map[string]string),
	}

	for _, metric := range containerMetrics {
		value, warnings, err := c.api.Query(ctx, c.podSelector(metric, pod), time.Now())
		if err != nil {
			result.Errors[metric] = err.Error()
			result.Metrics[metric] = nil
			continue
		}
		logWarnings(metric, warnings)
		result.Metrics[metric] = instantValue(value)
	}

	if len(result.Errors) == len(containerMetrics) {
		return nil, fmt.Errorf("all metric queries failed for pod %q, prometheus likely unreachable", pod)
	}
	return result, nil
}

// PodMetricsRange fetches each tracked metric over the trailing rangeMinutes
// at a 1m step.
func (c *Client) PodMetricsRange(ctx context.Context, pod string, rangeMinutes int) (*PodMetricsRange, error) {
	end := time.Now()
	r := promv1.Range{
		Start: end.Add(-time.Duration(rangeMinutes) * time.Minute),
		End:   end,
		Step:  time.Minute,
	}

	result := &PodMetricsRange{
		Namespace:    c.namespace,
		Pod:          pod,
		RangeMinutes: rangeMinutes,
		Step:         "1m",
		Metrics:      make(map[string][]float64, len(containerMetrics)),
		Errors:       make(map[string]string),
	}

	for _, metric := range containerMetrics {
		value, warnings, err := c.api.QueryRange(ctx, c.podSelector(metric, pod), r)
		if err != nil {
			result.Errors[metric] = err.Error()
			continue
		}
		logWarnings(metric, warnings)
		result.Metrics[metric] = rangeValues(value)
	}

	if len(result.Errors) == len(containerMetrics) {
		return nil, fmt.Errorf("all metric queries failed for pod %q, prometheus likely unreachable", pod)
	}
	return result, nil
}

// instantValue extracts the first sample of a vector result, or nil when the
// series has no data.
func instantValue(value model.Value) *float64 {
	vector, ok := value.(model.Vector)
	if !ok || len(vector) == 0 {
		return nil
	}
	v := float64(vector[0].Value)
	return &v
}

// rangeValues extracts the sample values of the first series in a matrix
// result, timestamps dropped.
func rangeValues(value model.Value) []float64 {
	matrix, ok := value.(model.Matrix)
	if !ok || len(matrix) == 0 {
		return nil
	}
	values := make([]float64, len(matrix[0].Values))
	for i, pair := range matrix[0].Values {
		values[i] = float64(pair.Value)
	}
	return values
}

func logWarnings(metric string, warnings promv1.Warnings) {
	for _, w := range warnings {
		slog.Warn("prometheus query warning", slog.String("metric", metric), slog.String("warning", w))
	}
}

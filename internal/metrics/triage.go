package metrics

import (
	"context"
	"fmt"
)

// Triage thresholds. These rules only use universal instant metrics, so the
// check works without knowing the pod's resource limits.
const (
	threadSaturationRatio = 0.95
	cpuLoadThreshold      = 10.0
	networkErrorThreshold = 1.0
)

// Ordered so triage reasons come out stable across runs.
var networkChecks = []struct {
	metric      string
	description string
}{
	{"container_network_receive_errors_total", "receive errors"},
	{"container_network_transmit_errors_total", "transmit errors"},
	{"container_network_receive_packets_dropped_total", "dropped received packets"},
	{"container_network_transmit_packets_dropped_total", "dropped transmitted packets"},
}

// Triage is a first-pass health check result for one pod.
type Triage struct {
	Pod            string              `json:"pod"`
	IsAnomalous    bool                `json:"is_anomalous"`
	Reasons        []string            `json:"reasons"`
	CheckedMetrics map[string]*float64 `json:"checked_metrics"`
}

// TriagePod checks a pod's instant metrics for clear, high-confidence
// anomaly signals: thread saturation, CPU load, and lifetime network
// errors or drops.
func (c *Client) TriagePod(ctx context.Context, pod string) (*Triage, error) {
	podMetrics, err := c.PodMetrics(ctx, pod)
	if err != nil {
		return nil, err
	}

	triage := &Triage{
		Pod:            pod,
		Reasons:        []string{},
		CheckedMetrics: podMetrics.Metrics,
	}

	m := podMetrics.Metrics

	threads := m["container_threads"]
	threadsMax := m["container_threads_max"]
	if threads != nil && threadsMax != nil && *threadsMax > 0 {
		ratio := *threads / *threadsMax
		if ratio > threadSaturationRatio {
			triage.IsAnomalous = true
			triage.Reasons = append(triage.Reasons, fmt.Sprintf(
				"CRITICAL: Thread usage is at %.1f%% of the maximum (%d/%d). Application may hang or crash.",
				ratio*100, int(*threads), int(*threadsMax)))
		}
	}

	if load := m["container_cpu_load_average_10s"]; load != nil && *load > cpuLoadThreshold {
		triage.IsAnomalous = true
		triage.Reasons = append(triage.Reasons, fmt.Sprintf(
			"WARNING: High CPU load average of %.2f. The CPU is likely saturated, causing high latency.", *load))
	}

	for _, check := range networkChecks {
		if value := m[check.metric]; value != nil && *value > networkErrorThreshold {
			triage.IsAnomalous = true
			triage.Reasons = append(triage.Reasons, fmt.Sprintf(
				"INFO: Pod has a history of %d network %s.", int(*value), check.description))
		}
	}

	return triage, nil
}

package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/clusterlens/clusterlens-mcp/internal/kube"
)

// LogsInput is the input for get_logs. Exactly one of pod_name and
// service_name must be set.
type LogsInput struct {
	PodName       string `json:"pod_name,omitempty" jsonschema:"pod to read logs from (mutually exclusive with service_name)"`
	ServiceName   string `json:"service_name,omitempty" jsonschema:"service whose pods to read logs from (mutually exclusive with pod_name)"`
	TailLines     int    `json:"tail_lines,omitempty" jsonschema:"number of trailing log lines to fetch per pod (default: 100)"`
	ImportantOnly bool   `json:"important_only,omitempty" jsonschema:"filter to error/warning/failure lines; falls back to the full tail when nothing matches"`
}

// PodLog is one pod's log tail.
type PodLog struct {
	Pod  string `json:"pod"`
	Logs string `json:"logs"`
}

// LogsOutput is the output for get_logs.
type LogsOutput struct {
	Logs   []PodLog          `json:"logs,omitzero"`
	Errors map[string]string `json:"errors,omitempty"`
}

// ProblematicPodsInput is the input for get_problematic_pods.
type ProblematicPodsInput struct{}

// ProblematicPodsOutput is the output for get_problematic_pods.
type ProblematicPodsOutput struct {
	Namespace string            `json:"namespace"`
	Count     int               `json:"count"`
	Pods      []kube.ProblemPod `json:"pods,omitzero"`
}

// ToolGetLogs tails logs for one pod or for every pod behind a service,
// optionally filtered to important lines. On the service path a pod whose
// fetch fails is reported in Errors next to the pods that succeeded.
func ToolGetLogs(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input LogsInput) (*sdkmcp.CallToolResult, LogsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input LogsInput) (*sdkmcp.CallToolResult, LogsOutput, error) {
		if input.PodName == "" && input.ServiceName == "" {
			return nil, LogsOutput{}, ErrInvalidInput("pod_name or service_name is required")
		}
		if input.PodName != "" && input.ServiceName != "" {
			return nil, LogsOutput{}, ErrInvalidInput("pod_name and service_name are mutually exclusive")
		}
		tail := input.TailLines
		if tail <= 0 {
			tail = d.Config.DefaultLogTail
		}

		if input.PodName != "" {
			logs, err := d.Kube.PodLogs(ctx, input.PodName, tail, input.ImportantOnly)
			if err != nil {
				return nil, LogsOutput{}, WrapBackendError(err)
			}
			return nil, LogsOutput{Logs: []PodLog{{Pod: input.PodName, Logs: logs}}}, nil
		}

		pods, err := d.Kube.PodsForService(ctx, input.ServiceName)
		if err != nil {
			return nil, LogsOutput{}, WrapBackendError(err)
		}

		output := LogsOutput{Logs: []PodLog{}}
		for _, pod := range pods {
			logs, err := d.Kube.PodLogs(ctx, pod.Name, tail, input.ImportantOnly)
			if err != nil {
				if output.Errors == nil {
					output.Errors = make(map[string]string)
				}
				output.Errors[pod.Name] = err.Error()
				continue
			}
			output.Logs = append(output.Logs, PodLog{Pod: pod.Name, Logs: logs})
		}
		return nil, output, nil
	}
}

// ToolProblematicPods scans the namespace for pods with container issues.
func ToolProblematicPods(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ProblematicPodsInput) (*sdkmcp.CallToolResult, ProblematicPodsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ProblematicPodsInput) (*sdkmcp.CallToolResult, ProblematicPodsOutput, error) {
		pods, err := d.Kube.ProblematicPods(ctx)
		if err != nil {
			return nil, ProblematicPodsOutput{}, WrapBackendError(err)
		}

		return nil, ProblematicPodsOutput{
			Namespace: d.Kube.Namespace(),
			Count:     len(pods),
			Pods:      pods,
		}, nil
	}
}

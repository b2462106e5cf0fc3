package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/clusterlens/clusterlens-mcp/internal/kube"
)

// ClusterOverviewInput is the input for get_cluster_overview.
type ClusterOverviewInput struct{}

// ClusterOverviewOutput is the output for get_cluster_overview.
type ClusterOverviewOutput struct {
	Namespace string   `json:"namespace"`
	Pods      []string `json:"pods,omitzero"`
	Services  []string `json:"services,omitzero"`
}

// PodsFromServiceInput is the input for get_pods_from_service.
type PodsFromServiceInput struct {
	ServiceName string `json:"service_name" jsonschema:"name of the Kubernetes service"`
}

// PodsFromServiceOutput is the output for get_pods_from_service.
type PodsFromServiceOutput struct {
	Service  string         `json:"service"`
	Selector string         `json:"selector"`
	Pods     []kube.PodInfo `json:"pods,omitzero"`
}

// ToolClusterOverview lists all pods and services in the target namespace.
func ToolClusterOverview(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ClusterOverviewInput) (*sdkmcp.CallToolResult, ClusterOverviewOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ClusterOverviewInput) (*sdkmcp.CallToolResult, ClusterOverviewOutput, error) {
		pods, err := d.Kube.ListPods(ctx)
		if err != nil {
			return nil, ClusterOverviewOutput{}, WrapBackendError(err)
		}
		services, err := d.Kube.ListServices(ctx)
		if err != nil {
			return nil, ClusterOverviewOutput{}, WrapBackendError(err)
		}

		return nil, ClusterOverviewOutput{
			Namespace: d.Kube.Namespace(),
			Pods:      pods,
			Services:  services,
		}, nil
	}
}

// ToolPodsFromService resolves a service to its label selector and lists the
// pods it selects.
func ToolPodsFromService(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input PodsFromServiceInput) (*sdkmcp.CallToolResult, PodsFromServiceOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input PodsFromServiceInput) (*sdkmcp.CallToolResult, PodsFromServiceOutput, error) {
		if input.ServiceName == "" {
			return nil, PodsFromServiceOutput{}, ErrInvalidInput("service_name is required")
		}

		selector, err := d.Kube.ResolveSelector(ctx, input.ServiceName)
		if err != nil {
			return nil, PodsFromServiceOutput{}, WrapBackendError(err)
		}
		pods, err := d.Kube.PodsForService(ctx, input.ServiceName)
		if err != nil {
			return nil, PodsFromServiceOutput{}, WrapBackendError(err)
		}

		return nil, PodsFromServiceOutput{
			Service:  input.ServiceName,
			Selector: selector,
			Pods:     pods,
		}, nil
	}
}

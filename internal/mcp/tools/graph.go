package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/clusterlens/clusterlens-mcp/internal/graph"
)

// ServicesCalledByInput is the input for get_services_called_by.
type ServicesCalledByInput struct {
	ServiceName string `json:"service_name" jsonschema:"service whose outgoing calls to list"`
}

// ServicesCalledByOutput is the output for get_services_called_by.
type ServicesCalledByOutput struct {
	Service  string   `json:"service"`
	Services []string `json:"services,omitzero"`
}

// DependenciesInput is the input for get_dependencies.
type DependenciesInput struct {
	ServiceName string `json:"service_name" jsonschema:"service whose infrastructure dependencies to list"`
}

// DependenciesOutput is the output for get_dependencies.
type DependenciesOutput struct {
	Service      string             `json:"service"`
	Dependencies []graph.Dependency `json:"dependencies,omitzero"`
}

// ServiceSummaryInput is the input for get_service_summary.
type ServiceSummaryInput struct {
	ServiceName string `json:"service_name" jsonschema:"service to summarize"`
}

// ServiceSummaryOutput is the output for get_service_summary.
type ServiceSummaryOutput struct {
	Service string `json:"service"`
	Summary string `json:"summary"`
}

// ToolServicesCalledBy lists the services the named service calls, sorted.
// A service with no outgoing calls and an unknown service both yield an
// empty list.
func ToolServicesCalledBy(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ServicesCalledByInput) (*sdkmcp.CallToolResult, ServicesCalledByOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ServicesCalledByInput) (*sdkmcp.CallToolResult, ServicesCalledByOutput, error) {
		if input.ServiceName == "" {
			return nil, ServicesCalledByOutput{}, ErrInvalidInput("service_name is required")
		}

		services, err := d.Graph.ServicesCalledBy(ctx, input.ServiceName)
		if err != nil {
			return nil, ServicesCalledByOutput{}, WrapGraphError(err)
		}
		if services == nil {
			services = []string{}
		}

		return nil, ServicesCalledByOutput{Service: input.ServiceName, Services: services}, nil
	}
}

// ToolDependencies lists the databases and caches the named service uses
// directly. Transitive dependencies are not followed.
func ToolDependencies(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input DependenciesInput) (*sdkmcp.CallToolResult, DependenciesOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input DependenciesInput) (*sdkmcp.CallToolResult, DependenciesOutput, error) {
		if input.ServiceName == "" {
			return nil, DependenciesOutput{}, ErrInvalidInput("service_name is required")
		}

		deps, err := d.Graph.DependenciesOf(ctx, input.ServiceName)
		if err != nil {
			return nil, DependenciesOutput{}, WrapGraphError(err)
		}
		if deps == nil {
			deps = []graph.Dependency{}
		}

		return nil, DependenciesOutput{Service: input.ServiceName, Dependencies: deps}, nil
	}
}

// ToolServiceSummary renders a one-line summary of a service's calls and
// dependencies.
func ToolServiceSummary(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ServiceSummaryInput) (*sdkmcp.CallToolResult, ServiceSummaryOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ServiceSummaryInput) (*sdkmcp.CallToolResult, ServiceSummaryOutput, error) {
		if input.ServiceName == "" {
			return nil, ServiceSummaryOutput{}, ErrInvalidInput("service_name is required")
		}

		summary, err := d.Graph.Summarize(ctx, input.ServiceName)
		if err != nil {
			return nil, ServiceSummaryOutput{}, WrapGraphError(err)
		}

		return nil, ServiceSummaryOutput{Service: input.ServiceName, Summary: summary}, nil
	}
}

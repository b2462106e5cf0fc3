package tools

import (
	"context"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/clusterlens/clusterlens-mcp/pkg/jaeger"
)

// TracesInput is the input for get_traces.
type TracesInput struct {
	ServiceName   string `json:"service_name" jsonschema:"service to search traces for"`
	Limit         int    `json:"limit,omitempty" jsonschema:"maximum number of traces to return (default: 20)"`
	OnlyErrors    bool   `json:"only_errors,omitempty" jsonschema:"return only traces containing an error span"`
	MinDurationMs int    `json:"min_duration_ms,omitempty" jsonschema:"drop traces faster than this many milliseconds"`
}

// TracesOutput is the output for get_traces.
type TracesOutput struct {
	Service string                  `json:"service"`
	Count   int                     `json:"count"`
	Traces  []jaeger.ProcessedTrace `json:"traces,omitzero"`
}

// TraceInput is the input for get_trace.
type TraceInput struct {
	TraceID string `json:"trace_id" jsonschema:"ID of the trace to fetch"`
}

// SpanDetail is one span of a fetched trace.
type SpanDetail struct {
	Service     string  `json:"service"`
	Operation   string  `json:"operation"`
	StartTimeUs int64   `json:"start_time_us"`
	DurationMs  float64 `json:"duration_ms"`
}

// TraceOutput is the output for get_trace.
type TraceOutput struct {
	Trace     *jaeger.ProcessedTrace `json:"trace"`
	SpanCount int                    `json:"span_count"`
	Spans     []SpanDetail           `json:"spans,omitzero"`
}

// ToolGetTraces searches recent traces for a service and condenses each one
// to latency, error state, and service sequence. Orphaned traces without a
// root span are skipped.
func ToolGetTraces(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input TracesInput) (*sdkmcp.CallToolResult, TracesOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input TracesInput) (*sdkmcp.CallToolResult, TracesOutput, error) {
		if input.ServiceName == "" {
			return nil, TracesOutput{}, ErrInvalidInput("service_name is required")
		}

		limit := input.Limit
		if limit <= 0 {
			limit = d.Config.DefaultTraceLimit
		}

		traces, err := d.Jaeger.Search(ctx, input.ServiceName, jaeger.SearchOptions{
			Limit:       limit,
			Lookback:    d.Config.TraceLookback,
			MinDuration: time.Duration(input.MinDurationMs) * time.Millisecond,
			OnlyErrors:  input.OnlyErrors,
		})
		if err != nil {
			return nil, TracesOutput{}, WrapBackendError(err)
		}

		output := TracesOutput{Service: input.ServiceName, Traces: []jaeger.ProcessedTrace{}}
		for i := range traces {
			if processed := jaeger.ProcessTrace(&traces[i]); processed != nil {
				output.Traces = append(output.Traces, *processed)
			}
		}
		output.Count = len(output.Traces)
		return nil, output, nil
	}
}

// ToolGetTrace fetches one trace by ID.
func ToolGetTrace(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input TraceInput) (*sdkmcp.CallToolResult, TraceOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input TraceInput) (*sdkmcp.CallToolResult, TraceOutput, error) {
		if input.TraceID == "" {
			return nil, TraceOutput{}, ErrInvalidInput("trace_id is required")
		}

		trace, err := d.Jaeger.GetTrace(ctx, input.TraceID)
		if err != nil {
			return nil, TraceOutput{}, WrapBackendError(err)
		}

		processed := jaeger.ProcessTrace(trace)
		if processed == nil {
			return nil, TraceOutput{}, ErrInvalidInput("trace has no root span")
		}

		spans := make([]SpanDetail, 0, len(trace.Spans))
		for _, span := range trace.Spans {
			spans = append(spans, SpanDetail{
				Service:     trace.Processes[span.ProcessID].ServiceName,
				Operation:   span.OperationName,
				StartTimeUs: span.StartTime,
				DurationMs:  float64(span.Duration) / 1000.0,
			})
		}

		return nil, TraceOutput{Trace: processed, SpanCount: len(trace.Spans), Spans: spans}, nil
	}
}

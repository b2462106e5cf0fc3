package jaeger

import "fmt"

// Trace is a raw trace as returned by the Jaeger Query API.
type Trace struct {
	TraceID   string             `json:"traceID"`
	Spans     []Span             `json:"spans"`
	Processes map[string]Process `json:"processes"`
}

// Span is one span of a trace. Timestamps and durations are microseconds.
type Span struct {
	TraceID       string      `json:"traceID"`
	SpanID        string      `json:"spanID"`
	OperationName string      `json:"operationName"`
	References    []Reference `json:"references"`
	StartTime     int64       `json:"startTime"`
	Duration      int64       `json:"duration"`
	Tags          []KeyValue  `json:"tags"`
	Logs          []SpanLog   `json:"logs"`
	ProcessID     string      `json:"processID"`
}

// Reference links a span to its parent.
type Reference struct {
	RefType string `json:"refType"`
	TraceID string `json:"traceID"`
	SpanID  string `json:"spanID"`
}

// Process identifies the service a span belongs to.
type Process struct {
	ServiceName string     `json:"serviceName"`
	Tags        []KeyValue `json:"tags"`
}

// KeyValue is a span or process tag.
type KeyValue struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// SpanLog is a structured log event attached to a span.
type SpanLog struct {
	Timestamp int64      `json:"timestamp"`
	Fields    []KeyValue `json:"fields"`
}

// ProcessedTrace condenses one trace for tool output: total latency from the
// root span, whether any span errored (with the extracted messages), and the
// de-duplicated sequence of services in start-time order.
type ProcessedTrace struct {
	TraceID      string   `json:"traceID"`
	LatencyMs    float64  `json:"latency_ms"`
	HasError     bool     `json:"has_error"`
	Sequence     string   `json:"sequence"`
	Services     []string `json:"-"`
	ErrorMessage string   `json:"error_message,omitempty"`
}

// APIError is a non-2xx response from the Jaeger Query API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("jaeger API error (status %d): %s", e.StatusCode, e.Message)
}

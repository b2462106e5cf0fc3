package jaeger

import (
	"sort"
	"strings"
)

// ProcessTrace condenses a raw trace. Returns nil when the trace has no root
// span (an orphaned partial trace).
func ProcessTrace(trace *Trace) *ProcessedTrace {
	root := rootSpan(trace)
	if root == nil {
		return nil
	}

	hasError, errorMessage := extractErrors(trace)
	services := serviceSequence(trace)

	processed := &ProcessedTrace{
		TraceID:   trace.TraceID,
		LatencyMs: float64(root.Duration) / 1000.0,
		HasError:  hasError,
		Sequence:  strings.Join(services, " -> "),
		Services:  services,
	}
	if hasError {
		processed.ErrorMessage = errorMessage
	}
	return processed
}

// rootSpan finds the span with no references: the trace entry point whose
// duration is the total latency.
func rootSpan(trace *Trace) *Span {
	for i := range trace.Spans {
		if len(trace.Spans[i].References) == 0 {
			return &trace.Spans[i]
		}
	}
	return nil
}

// extractErrors reports whether any span carries an error tag, and joins the
// messages found in the erroring spans' error-event logs. Stack traces
// contribute their first line only.
func extractErrors(trace *Trace) (bool, string) {
	hasError := false
	var details []string

	for _, span := range trace.Spans {
		if !spanHasErrorTag(&span) {
			continue
		}
		hasError = true

		for _, log := range span.Logs {
			fields := make(map[string]any, len(log.Fields))
			for _, f := range log.Fields {
				fields[f.Key] = f.Value
			}
			if fields["event"] != "error" {
				continue
			}
			if msg, ok := fields["message"].(string); ok {
				details = append(details, msg)
			}
			if stack, ok := fields["stack"].(string); ok {
				details = append(details, strings.SplitN(stack, "\n", 2)[0])
			}
		}
	}

	message := "N/A"
	if len(details) > 0 {
		message = strings.Join(details, "; ")
	}
	return hasError, message
}

func spanHasErrorTag(span *Span) bool {
	for _, tag := range span.Tags {
		if tag.Key == "error" && tag.Value == true {
			return true
		}
	}
	return false
}

// serviceSequence walks spans in start-time order and collects the service
// of each, collapsing consecutive repeats.
func serviceSequence(trace *Trace) []string {
	spans := make([]Span, len(trace.Spans))
	copy(spans, trace.Spans)
	sort.Slice(spans, func(i, j int) bool { return spans[i].StartTime < spans[j].StartTime })

	var sequence []string
	last := ""
	for _, span := range spans {
		process, ok := trace.Processes[span.ProcessID]
		if !ok || process.ServiceName == last {
			continue
		}
		sequence = append(sequence, process.ServiceName)
		last = process.ServiceName
	}
	return sequence
}

package tools

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"github.com/clusterlens/clusterlens-mcp/internal/graph"
	"github.com/clusterlens/clusterlens-mcp/internal/kube"
	"github.com/clusterlens/clusterlens-mcp/pkg/jaeger"
)

// Error codes for MCP tool responses.
const (
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeBackendError = "BACKEND_ERROR"
	ErrCodeGraphError   = "GRAPH_ERROR"
	ErrCodeTimeout      = "TIMEOUT"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WrapBackendError converts a Kubernetes, Prometheus, or Jaeger failure to a
// coded error.
func WrapBackendError(err error) error {
	if err == nil {
		return nil
	}

	var coded *CodedError

	var notFound *kube.ServiceNotFoundError
	var apiErr *jaeger.APIError
	var netErr net.Error
	switch {
	case errors.As(err, &notFound):
		coded = &CodedError{Code: ErrCodeNotFound, Message: notFound.Error(), Cause: err}
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
		coded = &CodedError{Code: ErrCodeNotFound, Message: apiErr.Message, Cause: err}
	case apierrors.IsNotFound(err):
		coded = &CodedError{Code: ErrCodeNotFound, Message: err.Error(), Cause: err}
	case errors.As(err, &netErr) && netErr.Timeout(),
		strings.Contains(err.Error(), "context deadline exceeded"):
		coded = &CodedError{Code: ErrCodeTimeout, Message: "request timed out", Cause: err}
	default:
		coded = &CodedError{Code: ErrCodeBackendError, Message: err.Error(), Cause: err}
	}

	slog.Warn("backend error",
		slog.String("code", coded.Code),
		slog.String("message", coded.Message),
	)

	return coded
}

// WrapGraphError converts a graph store failure to a coded error.
func WrapGraphError(err error) error {
	if err == nil {
		return nil
	}

	coded := &CodedError{Code: ErrCodeGraphError, Message: err.Error(), Cause: err}
	if graph.IsKind(err, graph.KindConnection) {
		coded.Message = "graph database unreachable"
	}

	slog.Warn("graph error",
		slog.String("code", coded.Code),
		slog.String("message", coded.Message),
	)

	return coded
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}

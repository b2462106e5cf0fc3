package graph

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// QueryService answers read-only questions against the stored graph. It
// never writes, holds no mutable state, and performs no caching: every call
// is a fresh store read, so concurrent callers are safe.
//
// Names match exactly and case-sensitively against the name property. An
// unknown service is not distinguished from a known service with no edges:
// both yield empty results. Callers that need existence can consult
// ServiceNames.
type QueryService struct {
	store Store
}

// NewQueryService creates a query service over the given store.
func NewQueryService(store Store) *QueryService {
	return &QueryService{store: store}
}

// ServicesCalledBy returns the names of services the named service calls,
// sorted ascending. Empty for a service with no outgoing CALLS edges and for
// an unknown service alike.
func (q *QueryService) ServicesCalledBy(ctx context.Context, service string) ([]string, error) {
	names, err := q.store.CalledServices(ctx, service)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// DependenciesOf returns the infrastructure nodes reachable from the named
// service via a single USES edge, sorted by name. Transitive dependencies
// are not included.
func (q *QueryService) DependenciesOf(ctx context.Context, service string) ([]Dependency, error) {
	deps, err := q.store.Dependencies(ctx, service)
	if err != nil {
		return nil, err
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].Name < deps[j].Name })
	return deps, nil
}

// Services returns all known service names, sorted ascending.
func (q *QueryService) Services(ctx context.Context) ([]string, error) {
	names, err := q.store.ServiceNames(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Summarize renders a single human-readable line combining the service's
// call and dependency counts and names. Output ordering is stable for the
// same graph state.
func (q *QueryService) Summarize(ctx context.Context, service string) (string, error) {
	called, err := q.ServicesCalledBy(ctx, service)
	if err != nil {
		return "", err
	}
	deps, err := q.DependenciesOf(ctx, service)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "The service %s ", service)
	if len(called) > 0 {
		fmt.Fprintf(&b, "uses %d services to complete its tasks: %s.", len(called), strings.Join(called, ", "))
	} else {
		b.WriteString("doesn't use any other services to complete its tasks.")
	}

	if len(deps) > 0 {
		parts := make([]string, len(deps))
		for i, d := range deps {
			parts[i] = fmt.Sprintf("%s (%s)", d.Name, d.Kind)
		}
		fmt.Fprintf(&b, " It has the following %d dependencies: %s.", len(deps), strings.Join(parts, ", "))
	}

	return b.String(), nil
}

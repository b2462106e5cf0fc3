package graph

import (
	"context"
	"fmt"
	"sync"
)

// fakeStore is an in-memory Store for tests. It mirrors the adapter's
// contract: idempotent merges, kind-conflict detection, empty reads for
// unknown names.
type fakeStore struct {
	mu    sync.Mutex
	nodes map[string]Kind
	edges map[Edge]struct{}

	// forcedErr, when set, is returned by every operation.
	forcedErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nodes: make(map[string]Kind),
		edges: make(map[Edge]struct{}),
	}
}

func (f *fakeStore) MergeNode(_ context.Context, n Node) (UpsertOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.forcedErr != nil {
		return 0, f.forcedErr
	}
	if existing, ok := f.nodes[n.Name]; ok {
		if existing != n.Kind {
			return 0, &Error{
				Kind:    KindConflict,
				Message: fmt.Sprintf("node %q already exists as %s, cannot re-declare as %s", n.Name, existing, n.Kind),
			}
		}
		return OutcomeAlreadyPresent, nil
	}
	f.nodes[n.Name] = n.Kind
	return OutcomeCreated, nil
}

func (f *fakeStore) MergeEdge(_ context.Context, e Edge, _ Kind) (UpsertOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.forcedErr != nil {
		return 0, f.forcedErr
	}
	if _, ok := f.edges[e]; ok {
		return OutcomeAlreadyPresent, nil
	}
	f.edges[e] = struct{}{}
	return OutcomeCreated, nil
}

func (f *fakeStore) NodeKind(_ context.Context, name string) (Kind, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.forcedErr != nil {
		return "", false, f.forcedErr
	}
	kind, ok := f.nodes[name]
	return kind, ok, nil
}

func (f *fakeStore) CalledServices(_ context.Context, service string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	var names []string
	for e := range f.edges {
		if e.Type == EdgeCalls && e.From == service {
			names = append(names, e.To)
		}
	}
	return names, nil
}

func (f *fakeStore) Dependencies(_ context.Context, service string) ([]Dependency, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	var deps []Dependency
	for e := range f.edges {
		if e.Type == EdgeUses && e.From == service {
			deps = append(deps, Dependency{Name: e.To, Kind: f.nodes[e.To]})
		}
	}
	return deps, nil
}

func (f *fakeStore) ServiceNames(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	var names []string
	for name, kind := range f.nodes {
		if kind == KindService {
			names = append(names, name)
		}
	}
	return names, nil
}

func (f *fakeStore) Close(context.Context) error { return nil }

// snapshot copies the current node and edge sets for equality assertions.
func (f *fakeStore) snapshot() (map[string]Kind, map[Edge]struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	nodes := make(map[string]Kind, len(f.nodes))
	for k, v := range f.nodes {
		nodes[k] = v
	}
	edges := make(map[Edge]struct{}, len(f.edges))
	for k := range f.edges {
		edges[k] = struct{}{}
	}
	return nodes, edges
}

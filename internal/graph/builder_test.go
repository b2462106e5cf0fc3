package graph

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSource = `
# sample topology
service frontend
service checkout
service payments
database orders-db
cache session-cache

calls frontend -> checkout
calls checkout -> payments
uses checkout -> orders-db
uses checkout -> session-cache
`

func loadSource(t *testing.T, b *Builder, source string) LoadResult {
	t.Helper()
	stmts, err := ParseStatements(strings.NewReader(source))
	require.NoError(t, err)
	res, err := b.Load(context.Background(), stmts)
	require.NoError(t, err)
	return res
}

func TestLoadCounts(t *testing.T) {
	store := newFakeStore()
	res := loadSource(t, NewBuilder(store), sampleSource)

	assert.Equal(t, 5, res.NodesCreated)
	assert.Equal(t, 0, res.NodesMatched)
	assert.Equal(t, 4, res.EdgesCreated)
	assert.Equal(t, 0, res.EdgesMatched)
	assert.Equal(t, 9, res.StatementsRun)
}

func TestLoadIdempotence(t *testing.T) {
	store := newFakeStore()
	b := NewBuilder(store)

	loadSource(t, b, sampleSource)
	nodesOnce, edgesOnce := store.snapshot()

	res := loadSource(t, b, sampleSource)
	nodesTwice, edgesTwice := store.snapshot()

	assert.Equal(t, nodesOnce, nodesTwice)
	assert.Equal(t, edgesOnce, edgesTwice)
	assert.Equal(t, 0, res.NodesCreated)
	assert.Equal(t, 5, res.NodesMatched)
	assert.Equal(t, 0, res.EdgesCreated)
	assert.Equal(t, 4, res.EdgesMatched)
}

func TestLoadOrderInvariance(t *testing.T) {
	// Same statements, different permutation (nodes still precede the edges
	// that reference them).
	permuted := `
database orders-db
service payments
service frontend
cache session-cache
service checkout
uses checkout -> session-cache
calls checkout -> payments
uses checkout -> orders-db
calls frontend -> checkout
`
	a := newFakeStore()
	loadSource(t, NewBuilder(a), sampleSource)
	b := newFakeStore()
	loadSource(t, NewBuilder(b), permuted)

	nodesA, edgesA := a.snapshot()
	nodesB, edgesB := b.snapshot()
	assert.Equal(t, nodesA, nodesB)
	assert.Equal(t, edgesA, edgesB)
}

func TestLoadUndeclaredNode(t *testing.T) {
	source := `
service frontend
calls frontend -> checkout
`
	store := newFakeStore()
	stmts, err := ParseStatements(strings.NewReader(source))
	require.NoError(t, err)

	res, err := NewBuilder(store).Load(context.Background(), stmts)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindUndeclaredNode))
	assert.Contains(t, err.Error(), "checkout")
	assert.Contains(t, err.Error(), "calls frontend -> checkout")

	// Statements before the failure persist.
	nodes, _ := store.snapshot()
	assert.Equal(t, map[string]Kind{"frontend": KindService}, nodes)
	assert.Equal(t, 1, res.StatementsRun)
}

func TestLoadKindConflict(t *testing.T) {
	source := `
service orders-db
database orders-db
`
	store := newFakeStore()
	stmts, err := ParseStatements(strings.NewReader(source))
	require.NoError(t, err)

	_, err = NewBuilder(store).Load(context.Background(), stmts)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindConflict))
}

func TestLoadEdgeAcrossRuns(t *testing.T) {
	// An edge may reference nodes declared in a previous run: the builder
	// falls back to the store for undeclared names.
	store := newFakeStore()
	b := NewBuilder(store)
	loadSource(t, b, "service frontend\nservice checkout\n")
	loadSource(t, b, "calls frontend -> checkout\n")

	_, edges := store.snapshot()
	assert.Contains(t, edges, Edge{Type: EdgeCalls, From: "frontend", To: "checkout"})
}

func TestLoadEdgeShapeValidation(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"calls target must be a service", "service a\ndatabase d\ncalls a -> d\n"},
		{"uses target must be infrastructure", "service a\nservice b\nuses a -> b\n"},
		{"edge source must be a service", "database d\nservice b\ncalls d -> b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, err := ParseStatements(strings.NewReader(tt.source))
			require.NoError(t, err)
			_, err = NewBuilder(newFakeStore()).Load(context.Background(), stmts)
			require.Error(t, err)
			assert.True(t, IsKind(err, KindLoad))
		})
	}
}

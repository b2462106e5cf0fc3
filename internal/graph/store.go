package graph

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Store is the persistence contract the builder and query service depend on.
// The Neo4j adapter is the only production implementation; tests substitute
// an in-memory fake.
//
// Implementations do not retry: a graph statement is not inherently safe to
// blindly retry, so convergence comes from statement idempotence, and
// failures surface immediately.
type Store interface {
	// MergeNode idempotently upserts a node. Re-declaring an existing node
	// with the same kind returns OutcomeAlreadyPresent; a different kind is
	// a KindConflict error.
	MergeNode(ctx context.Context, n Node) (UpsertOutcome, error)
	// MergeEdge idempotently upserts an edge. Both endpoints must already
	// exist; toKind selects the target node's label.
	MergeEdge(ctx context.Context, e Edge, toKind Kind) (UpsertOutcome, error)
	// NodeKind looks up a node by name across all kinds. The bool reports
	// whether the node exists.
	NodeKind(ctx context.Context, name string) (Kind, bool, error)
	// CalledServices returns the names of services the named service has a
	// CALLS edge to. Unknown service yields an empty result, not an error.
	CalledServices(ctx context.Context, service string) ([]string, error)
	// Dependencies returns the USES targets of the named service, one hop
	// only. Unknown service yields an empty result, not an error.
	Dependencies(ctx context.Context, service string) ([]Dependency, error)
	// ServiceNames returns the names of all Service nodes.
	ServiceNames(ctx context.Context) ([]string, error)
	// Close releases the underlying connection.
	Close(ctx context.Context) error
}

// StoreConfig holds the Neo4j connection settings.
type StoreConfig struct {
	URI      string
	Username string
	Password string
}

// Neo4jStore is the Neo4j-backed Store. It owns the driver exclusively;
// nothing else in the process opens a second connection path to the graph.
type Neo4jStore struct {
	driver neo4j.DriverWithContext
}

var _ Store = (*Neo4jStore)(nil)

// Connect opens a driver against the configured Neo4j endpoint and verifies
// connectivity before returning. An unreachable store is a KindConnection
// error.
func Connect(ctx context.Context, cfg StoreConfig) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, connectionErr(fmt.Sprintf("creating driver for %s", cfg.URI), err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, connectionErr(fmt.Sprintf("verifying connectivity to %s", cfg.URI), err)
	}

	slog.Info("connected to graph store", slog.String("uri", cfg.URI))
	return &Neo4jStore{driver: driver}, nil
}

// Close shuts the driver down.
func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// MergeNode upserts a node by kind and name. The create-vs-match outcome is
// read from the result summary counters.
func (s *Neo4jStore) MergeNode(ctx context.Context, n Node) (UpsertOutcome, error) {
	existing, found, err := s.NodeKind(ctx, n.Name)
	if err != nil {
		return 0, err
	}
	if found && existing != n.Kind {
		return 0, &Error{
			Kind:    KindConflict,
			Message: fmt.Sprintf("node %q already exists as %s, cannot re-declare as %s", n.Name, existing, n.Kind),
		}
	}

	cypher := fmt.Sprintf("MERGE (n:%s {name: $name})", n.Kind)
	result, err := neo4j.ExecuteQuery(ctx, s.driver, cypher,
		map[string]any{"name": n.Name}, neo4j.EagerResultTransformer)
	if err != nil {
		return 0, queryErr(fmt.Sprintf("merging node %s", n), err)
	}

	if result.Summary.Counters().NodesCreated() > 0 {
		return OutcomeCreated, nil
	}
	return OutcomeAlreadyPresent, nil
}

// MergeEdge upserts an edge between two existing nodes. The source of both
// edge types is a Service node.
func (s *Neo4jStore) MergeEdge(ctx context.Context, e Edge, toKind Kind) (UpsertOutcome, error) {
	cypher := fmt.Sprintf(
		"MATCH (a:%s {name: $from}) MATCH (b:%s {name: $to}) MERGE (a)-[:%s]->(b)",
		KindService, toKind, e.Type)
	result, err := neo4j.ExecuteQuery(ctx, s.driver, cypher,
		map[string]any{"from": e.From, "to": e.To}, neo4j.EagerResultTransformer)
	if err != nil {
		return 0, queryErr(fmt.Sprintf("merging edge %s", e), err)
	}

	if result.Summary.Counters().RelationshipsCreated() > 0 {
		return OutcomeCreated, nil
	}
	return OutcomeAlreadyPresent, nil
}

// NodeKind finds a node by name regardless of kind.
func (s *Neo4jStore) NodeKind(ctx context.Context, name string) (Kind, bool, error) {
	result, err := neo4j.ExecuteQuery(ctx, s.driver,
		"MATCH (n {name: $name}) RETURN labels(n)[0] AS kind LIMIT 1",
		map[string]any{"name": name}, neo4j.EagerResultTransformer)
	if err != nil {
		return "", false, queryErr(fmt.Sprintf("looking up node %q", name), err)
	}
	if len(result.Records) == 0 {
		return "", false, nil
	}

	kind, _, err := neo4j.GetRecordValue[string](result.Records[0], "kind")
	if err != nil {
		return "", false, queryErr(fmt.Sprintf("reading kind of node %q", name), err)
	}
	return Kind(kind), true, nil
}

// CalledServices returns CALLS targets of the named service.
func (s *Neo4jStore) CalledServices(ctx context.Context, service string) ([]string, error) {
	result, err := neo4j.ExecuteQuery(ctx, s.driver,
		"MATCH (s:Service {name: $name})-[:CALLS]->(c:Service) RETURN c.name AS name",
		map[string]any{"name": service}, neo4j.EagerResultTransformer)
	if err != nil {
		return nil, queryErr(fmt.Sprintf("querying services called by %q", service), err)
	}

	names := make([]string, 0, len(result.Records))
	for _, record := range result.Records {
		name, _, err := neo4j.GetRecordValue[string](record, "name")
		if err != nil {
			return nil, queryErr("reading called-service name", err)
		}
		names = append(names, name)
	}
	return names, nil
}

// Dependencies returns the single-hop USES targets of the named service.
func (s *Neo4jStore) Dependencies(ctx context.Context, service string) ([]Dependency, error) {
	result, err := neo4j.ExecuteQuery(ctx, s.driver,
		"MATCH (s:Service {name: $name})-[:USES]->(d) RETURN d.name AS name, labels(d)[0] AS kind",
		map[string]any{"name": service}, neo4j.EagerResultTransformer)
	if err != nil {
		return nil, queryErr(fmt.Sprintf("querying dependencies of %q", service), err)
	}

	deps := make([]Dependency, 0, len(result.Records))
	for _, record := range result.Records {
		name, _, err := neo4j.GetRecordValue[string](record, "name")
		if err != nil {
			return nil, queryErr("reading dependency name", err)
		}
		kind, _, err := neo4j.GetRecordValue[string](record, "kind")
		if err != nil {
			return nil, queryErr("reading dependency kind", err)
		}
		deps = append(deps, Dependency{Name: name, Kind: Kind(kind)})
	}
	return deps, nil
}

// ServiceNames returns all Service node names.
func (s *Neo4jStore) ServiceNames(ctx context.Context) ([]string, error) {
	result, err := neo4j.ExecuteQuery(ctx, s.driver,
		"MATCH (s:Service) RETURN s.name AS name",
		map[string]any{}, neo4j.EagerResultTransformer)
	if err != nil {
		return nil, queryErr("listing services", err)
	}

	names := make([]string, 0, len(result.Records))
	for _, record := range result.Records {
		name, _, err := neo4j.GetRecordValue[string](record, "name")
		if err != nil {
			return nil, queryErr("reading service name", err)
		}
		names = append(names, name)
	}
	return names, nil
}

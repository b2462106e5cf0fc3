// Package graph implements the service-dependency graph: its Neo4j-backed
// store adapter, the idempotent batch builder, and the read-only query
// service used by the MCP tools.
//
// The graph holds three node kinds (Service, Database, Cache), each keyed by
// a name property, and two relationship types: CALLS (Service -> Service,
// derived from traces) and USES (Service -> Database|Cache, statically
// declared). Edges carry no properties and collapse to a set.
package graph

import "fmt"

// Kind is a node kind. It doubles as the Neo4j node label.
type Kind string

const (
	KindService  Kind = "Service"
	KindDatabase Kind = "Database"
	KindCache    Kind = "Cache"
)

// ParseKind converts a statement keyword to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "service":
		return KindService, nil
	case "database":
		return KindDatabase, nil
	case "cache":
		return KindCache, nil
	default:
		return "", fmt.Errorf("unknown node kind %q", s)
	}
}

// EdgeType is a relationship type. It doubles as the Neo4j relationship type.
type EdgeType string

const (
	EdgeCalls EdgeType = "CALLS"
	EdgeUses  EdgeType = "USES"
)

// Node is a graph node. Name is the natural key, unique within its kind;
// a node's kind is immutable once created.
type Node struct {
	Kind Kind
	Name string
}

func (n Node) String() string {
	return fmt.Sprintf("%s(%s)", n.Kind, n.Name)
}

// Edge is a directed relationship between two named nodes.
type Edge struct {
	Type EdgeType
	From string
	To   string
}

func (e Edge) String() string {
	return fmt.Sprintf("%s -[%s]-> %s", e.From, e.Type, e.To)
}

// Dependency is a USES target: an infrastructure node one hop from a service.
type Dependency struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// UpsertOutcome reports what an idempotent merge actually did, so callers
// (and tests) can tell a fresh create from a matched no-op.
type UpsertOutcome int

const (
	// OutcomeCreated means the node or edge did not exist and was created.
	OutcomeCreated UpsertOutcome = iota
	// OutcomeAlreadyPresent means an identical node or edge already existed
	// and the merge was a no-op.
	OutcomeAlreadyPresent
)

func (o UpsertOutcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeAlreadyPresent:
		return "already-present"
	default:
		return fmt.Sprintf("UpsertOutcome(%d)", int(o))
	}
}

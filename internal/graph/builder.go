package graph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// LoadResult counts what a load run applied.
type LoadResult struct {
	NodesCreated  int
	NodesMatched  int
	EdgesCreated  int
	EdgesMatched  int
	StatementsRun int
}

// Builder loads batches of graph statements into a store. Loads are meant to
// run as an exclusive, infrequent batch operation, not interleaved with other
// loads.
type Builder struct {
	store Store
}

// NewBuilder creates a builder over the given store.
func NewBuilder(store Store) *Builder {
	return &Builder{store: store}
}

// Load applies statements in order against the store. The batch is not
// rolled back on failure: statement N failing leaves statements 1..N-1
// applied. Each statement is independently idempotent, so re-running the
// whole source after a failure is safe and convergent.
//
// Edge statements never auto-create nodes. A referenced node must be
// declared earlier in the source or already present in the store; otherwise
// the load stops with a KindUndeclaredNode error naming the statement.
func (b *Builder) Load(ctx context.Context, stmts []Statement) (LoadResult, error) {
	var res LoadResult

	// Kinds of every node declared so far, seeded lazily from the store on
	// the first edge that references a name this run has not declared.
	declared := make(map[string]Kind)

	for _, stmt := range stmts {
		switch {
		case stmt.Node != nil:
			outcome, err := b.store.MergeNode(ctx, *stmt.Node)
			if err != nil {
				return res, loadErr(stmt, err)
			}
			declared[stmt.Node.Name] = stmt.Node.Kind
			if outcome == OutcomeCreated {
				res.NodesCreated++
			} else {
				res.NodesMatched++
			}

		case stmt.Edge != nil:
			e := *stmt.Edge
			fromKind, err := b.resolveKind(ctx, declared, e.From)
			if err != nil {
				return res, undeclaredErr(stmt, e.From, err)
			}
			toKind, err := b.resolveKind(ctx, declared, e.To)
			if err != nil {
				return res, undeclaredErr(stmt, e.To, err)
			}
			if err := validateEdge(e.Type, fromKind, toKind); err != nil {
				return res, loadErr(stmt, err)
			}

			outcome, err := b.store.MergeEdge(ctx, e, toKind)
			if err != nil {
				return res, loadErr(stmt, err)
			}
			if outcome == OutcomeCreated {
				res.EdgesCreated++
			} else {
				res.EdgesMatched++
			}

		default:
			return res, loadErr(stmt, fmt.Errorf("statement has neither node nor edge"))
		}
		res.StatementsRun++
	}

	slog.Info("graph load complete",
		slog.Int("statements", res.StatementsRun),
		slog.Int("nodes_created", res.NodesCreated),
		slog.Int("nodes_matched", res.NodesMatched),
		slog.Int("edges_created", res.EdgesCreated),
		slog.Int("edges_matched", res.EdgesMatched),
	)
	return res, nil
}

// resolveKind finds the kind of a node referenced by an edge, first among
// this run's declarations, then in the store.
func (b *Builder) resolveKind(ctx context.Context, declared map[string]Kind, name string) (Kind, error) {
	if kind, ok := declared[name]; ok {
		return kind, nil
	}
	kind, found, err := b.store.NodeKind(ctx, name)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("node %q has not been declared", name)
	}
	declared[name] = kind
	return kind, nil
}

// validateEdge enforces the model's edge shape: CALLS is Service -> Service,
// USES is Service -> Database|Cache.
func validateEdge(typ EdgeType, from, to Kind) error {
	if from != KindService {
		return fmt.Errorf("%s edge source must be a Service, got %s", typ, from)
	}
	switch typ {
	case EdgeCalls:
		if to != KindService {
			return fmt.Errorf("CALLS edge target must be a Service, got %s", to)
		}
	case EdgeUses:
		if to != KindDatabase && to != KindCache {
			return fmt.Errorf("USES edge target must be a Database or Cache, got %s", to)
		}
	}
	return nil
}

func loadErr(stmt Statement, cause error) *Error {
	// Preserve the more specific kinds raised by the store.
	var ge *Error
	if errors.As(cause, &ge) && (ge.Kind == KindConnection || ge.Kind == KindConflict) {
		if ge.Statement == "" {
			ge.Statement = stmt.Text
		}
		return ge
	}
	return &Error{Kind: KindLoad, Message: "statement failed", Statement: stmt.Text, Cause: cause}
}

func undeclaredErr(stmt Statement, name string, cause error) *Error {
	var ge *Error
	if errors.As(cause, &ge) {
		// The store lookup itself failed; report that, not a declaration error.
		if ge.Statement == "" {
			ge.Statement = stmt.Text
		}
		return ge
	}
	return &Error{
		Kind:      KindUndeclaredNode,
		Message:   fmt.Sprintf("edge references undeclared node %q", name),
		Statement: stmt.Text,
		Cause:     cause,
	}
}

package graph

import (
	"context"
	"fmt"
	"sort"
)

// TraceSource yields observed service call sequences, one per trace, for a
// named service. The Jaeger client satisfies it directly.
type TraceSource interface {
	ServiceSequences(ctx context.Context, service string) ([][]string, error)
}

// MineStatements derives graph statements from trace data: a service node
// declaration for every service observed in a sequence, and a CALLS edge for
// every adjacent pair. Output is deduplicated and deterministic, with node
// statements ordered before the edge statements that reference them, so the
// result is directly loadable.
//
// USES edges cannot be mined from traces; they come from the static
// declaration file merged in by the caller.
func MineStatements(ctx context.Context, src TraceSource, services []string) ([]Statement, error) {
	nodes := make(map[string]struct{})
	edges := make(map[Edge]struct{})

	for _, service := range services {
		sequences, err := src.ServiceSequences(ctx, service)
		if err != nil {
			return nil, fmt.Errorf("mining traces for %q: %w", service, err)
		}
		for _, seq := range sequences {
			for i, name := range seq {
				nodes[name] = struct{}{}
				if i == 0 || seq[i-1] == name {
					continue
				}
				edges[Edge{Type: EdgeCalls, From: seq[i-1], To: name}] = struct{}{}
			}
		}
	}

	nodeNames := make([]string, 0, len(nodes))
	for name := range nodes {
		nodeNames = append(nodeNames, name)
	}
	sort.Strings(nodeNames)

	edgeList := make([]Edge, 0, len(edges))
	for e := range edges {
		edgeList = append(edgeList, e)
	}
	sort.Slice(edgeList, func(i, j int) bool {
		if edgeList[i].From != edgeList[j].From {
			return edgeList[i].From < edgeList[j].From
		}
		return edgeList[i].To < edgeList[j].To
	})

	stmts := make([]Statement, 0, len(nodeNames)+len(edgeList))
	for _, name := range nodeNames {
		stmts = append(stmts, NodeStatement(KindService, name))
	}
	for _, e := range edgeList {
		stmts = append(stmts, EdgeStatement(EdgeCalls, e.From, e.To))
	}
	return stmts, nil
}

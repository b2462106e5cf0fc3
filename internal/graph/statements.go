package graph

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Statement is one declarative graph-construction step: it either
// creates-or-matches a node, or creates-or-matches an edge between two
// already-declared nodes. Exactly one of Node/Edge is set.
type Statement struct {
	Node *Node
	Edge *Edge

	// Text is the source line the statement was parsed from, kept for
	// error context. Synthesized statements fill it with a rendering.
	Text string
	// Line is the 1-based source line number, or 0 for synthesized
	// statements.
	Line int
}

// NodeStatement builds a node declaration statement.
func NodeStatement(kind Kind, name string) Statement {
	n := Node{Kind: kind, Name: name}
	return Statement{Node: &n, Text: fmt.Sprintf("%s %s", strings.ToLower(string(kind)), name)}
}

// EdgeStatement builds an edge declaration statement.
func EdgeStatement(typ EdgeType, from, to string) Statement {
	e := Edge{Type: typ, From: from, To: to}
	return Statement{Edge: &e, Text: fmt.Sprintf("%s %s -> %s", strings.ToLower(string(typ)), from, to)}
}

// ParseStatements reads a statement source: one statement per line, in
// order. Blank lines and lines starting with '#' are skipped.
//
// Node lines:  <service|database|cache> <name>
// Edge lines:  <calls|uses> <from> -> <to>
func ParseStatements(r io.Reader) ([]Statement, error) {
	var stmts []Statement

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		stmt, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		stmt.Line = lineNo
		stmts = append(stmts, stmt)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading statement source: %w", err)
	}

	return stmts, nil
}

func parseLine(line string) (Statement, error) {
	fields := strings.Fields(line)
	keyword := strings.ToLower(fields[0])

	switch keyword {
	case "service", "database", "cache":
		if len(fields) != 2 {
			return Statement{}, fmt.Errorf("node statement must be %q: %q", keyword+" <name>", line)
		}
		kind, err := ParseKind(keyword)
		if err != nil {
			return Statement{}, err
		}
		node := Node{Kind: kind, Name: fields[1]}
		return Statement{Node: &node, Text: line}, nil

	case "calls", "uses":
		if len(fields) != 4 || fields[2] != "->" {
			return Statement{}, fmt.Errorf("edge statement must be %q: %q", keyword+" <from> -> <to>", line)
		}
		typ := EdgeCalls
		if keyword == "uses" {
			typ = EdgeUses
		}
		edge := Edge{Type: typ, From: fields[1], To: fields[3]}
		return Statement{Edge: &edge, Text: line}, nil

	default:
		return Statement{}, fmt.Errorf("unknown statement keyword %q in %q", fields[0], line)
	}
}

package graph

import (
	"errors"
	"fmt"
)

// ErrorKind classifies graph failures so the tool facade can surface a
// structured kind alongside the message.
type ErrorKind string

const (
	// KindConnection means the store is unreachable. Fatal to the calling
	// operation; never retried inside this package.
	KindConnection ErrorKind = "CONNECTION"
	// KindQuery means a single read statement failed.
	KindQuery ErrorKind = "QUERY"
	// KindLoad means a build statement failed mid-batch. Statements already
	// applied in that run persist.
	KindLoad ErrorKind = "LOAD"
	// KindUndeclaredNode means an edge statement referenced a node that was
	// neither declared earlier in the source nor already in the store.
	KindUndeclaredNode ErrorKind = "UNDECLARED_NODE"
	// KindConflict means a node was re-declared with a different kind.
	KindConflict ErrorKind = "CONFLICT"
)

// Error is the graph error taxonomy. Statement carries the offending
// statement's text where one is available.
type Error struct {
	Kind      ErrorKind
	Message   string
	Statement string
	Cause     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Statement != "" {
		msg += fmt.Sprintf(" (statement: %q)", e.Statement)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsKind reports whether err is a graph *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ge *Error
	return errors.As(err, &ge) && ge.Kind == kind
}

func connectionErr(msg string, cause error) *Error {
	return &Error{Kind: KindConnection, Message: msg, Cause: cause}
}

func queryErr(msg string, cause error) *Error {
	return &Error{Kind: KindQuery, Message: msg, Cause: cause}
}

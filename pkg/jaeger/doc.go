// Package jaeger provides a client for the Jaeger Query HTTP API.
//
// The Jaeger project ships no maintained Go client for its query service, so
// this package wraps the two endpoints the tools need: trace search
// (GET /api/traces) and trace retrieval (GET /api/traces/{id}).
//
// Create a client and search traces:
//
//	c := jaeger.New()
//	traces, err := c.Search(ctx, "checkout", jaeger.SearchOptions{OnlyErrors: true})
//
// Use custom configuration:
//
//	c := jaeger.New(
//	    jaeger.WithBaseURL("http://jaeger-query:16686"),
//	    jaeger.WithHTTPClient(customHTTPClient),
//	)
//
// Raw traces carry spans keyed to processes; ProcessTrace condenses one into
// the latency, error flag, error messages, and service call sequence the
// tools expose.
package jaeger

package tools

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// AddTool registers a tool with the server after checking that the output
// type's zero value passes the SDK's inferred JSON schema. This catches
// nil-slice bugs at startup rather than at runtime.
//
// Panics if the zero value of Out fails schema validation.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	CheckOutputSchema[Out](t.Name)
	sdkmcp.AddTool(srv, t, h)
}

// CheckOutputSchema validates that the zero value of T passes the JSON
// schema the MCP SDK would infer from it.
//
// Go's json.Marshal serializes nil slices and maps as null, but the SDK
// infers "array" or "object" from the Go type, so null fails schema
// validation. Slice and map fields need omitzero or omitempty, or an
// explicit empty value in every handler return.
//
// Panics if validation fails. No-ops for the untyped "any" output or when
// schema inference itself fails (the SDK reports those separately).
func CheckOutputSchema[T any](toolName string) {
	rt := reflect.TypeFor[T]()
	if rt == reflect.TypeFor[any]() {
		return
	}
	// Follow pointer like the SDK does.
	elem := rt
	if elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}

	schema, err := jsonschema.ForType(elem, &jsonschema.ForOptions{})
	if err != nil {
		return
	}
	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return
	}

	zero := reflect.Zero(elem).Interface()
	data, err := json.Marshal(zero)
	if err != nil {
		return
	}

	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		return
	}

	if err := resolved.Validate(&v); err != nil {
		panic(fmt.Sprintf(
			"AddTool %q: zero value of output type %s fails schema validation: %v\n"+
				"  JSON: %s\n"+
				"  Fix: add `omitzero` to nil-defaulting slice or map fields",
			toolName, elem, err, data,
		))
	}
}

package tools

import (
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
)

func TestCheckOutputSchemaPanicsOnNilSlice(t *testing.T) {
	type BadOutput struct {
		Items []string `json:"items"` // nil → null → schema expects array
	}
	assert.Panics(t, func() {
		CheckOutputSchema[BadOutput]("test_bad_tool")
	})
}

func TestCheckOutputSchemaOkWithOmitzero(t *testing.T) {
	type GoodOutput struct {
		Items []string `json:"items,omitzero"`
	}
	assert.NotPanics(t, func() {
		CheckOutputSchema[GoodOutput]("test_good_tool")
	})
}

func TestCheckOutputSchemaOkWithNoSlices(t *testing.T) {
	type SimpleOutput struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	assert.NotPanics(t, func() {
		CheckOutputSchema[SimpleOutput]("test_simple_tool")
	})
}

// Registering the full tool set validates every output type's zero value
// against its inferred schema.
func TestRegisterAllTools(t *testing.T) {
	srv := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "test", Version: "0.0.0"}, nil)
	assert.NotPanics(t, func() {
		Register(srv, &Deps{})
	})
}

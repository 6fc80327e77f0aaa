package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/fivetran-mcp/internal/catalog"
	"github.com/bobmcallan/fivetran-mcp/internal/dispatch"
)

// BuildMCPTool converts a catalog listing into an mcp.Tool. The listing's
// input schema is used verbatim so discovery matches what the resolver
// accepts.
func BuildMCPTool(l catalog.Listing) (mcp.Tool, error) {
	schema, err := json.Marshal(l.InputSchema)
	if err != nil {
		return mcp.Tool{}, fmt.Errorf("tool %q: failed to marshal input schema: %w", l.Name, err)
	}

	tool := mcp.NewToolWithRawSchema(l.Name, l.Description, schema)
	for _, opt := range []mcp.ToolOption{
		mcp.WithReadOnlyHintAnnotation(l.ReadOnly),
		mcp.WithDestructiveHintAnnotation(l.Destructive),
		mcp.WithOpenWorldHintAnnotation(true),
	} {
		opt(&tool)
	}
	return tool, nil
}

// RegisterToolsFromCatalog registers one tool per catalog operation, each
// routed through the dispatcher.
func RegisterToolsFromCatalog(s *server.MCPServer, d *dispatch.Dispatcher) (int, error) {
	listings := d.Catalog().Export()
	for _, l := range listings {
		tool, err := BuildMCPTool(l)
		if err != nil {
			return 0, err
		}
		s.AddTool(tool, GenericToolHandler(d, l.Name))
	}
	return len(listings), nil
}

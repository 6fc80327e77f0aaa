package mcp

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/fivetran-mcp/internal/dispatch"
)

// GenericToolHandler routes a tool call to the dispatcher. Failures are
// returned as IsError results, never as protocol errors.
func GenericToolHandler(d *dispatch.Dispatcher, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		payload, err := d.Invoke(ctx, name, r.GetArguments())
		if err != nil {
			return errorResult(dispatch.AsError(err)), nil
		}
		return textResult(payload), nil
	}
}

// textResult renders a JSON payload as indented text content.
func textResult(payload json.RawMessage) *mcp.CallToolResult {
	var buf bytes.Buffer
	if err := json.Indent(&buf, payload, "", "  "); err != nil {
		return mcp.NewToolResultText(string(payload))
	}
	return mcp.NewToolResultText(buf.String())
}

// errorResult creates an MCP error result carrying {"error": {...}}.
func errorResult(e *dispatch.Error) *mcp.CallToolResult {
	text, err := json.MarshalIndent(map[string]any{"error": e}, "", "  ")
	if err != nil {
		text = []byte(e.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(string(text)),
		},
		IsError: true,
	}
}

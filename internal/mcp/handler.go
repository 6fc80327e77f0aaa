// Package mcp exposes the Fivetran operation catalog as MCP tools.
package mcp

import (
	"fmt"
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/fivetran-mcp/internal/common"
	"github.com/bobmcallan/fivetran-mcp/internal/config"
	"github.com/bobmcallan/fivetran-mcp/internal/dispatch"
)

// NewServer creates the MCP server with every catalog operation registered.
func NewServer(cfg *config.Config, d *dispatch.Dispatcher, logger *common.Logger) (*mcpserver.MCPServer, error) {
	mcpSrv := mcpserver.NewMCPServer(
		cfg.Server.Name,
		common.GetVersion(),
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	)

	toolCount, err := RegisterToolsFromCatalog(mcpSrv, d)
	if err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	logger.Info().
		Int("tools", toolCount).
		Bool("allow_writes", cfg.Fivetran.AllowWrites).
		Str("base_url", cfg.Fivetran.BaseURL).
		Msg("MCP server initialized")

	return mcpSrv, nil
}

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	streamable *mcpserver.StreamableHTTPServer
}

// NewHandler creates a stateless streamable HTTP handler for s.
func NewHandler(s *mcpserver.MCPServer) *Handler {
	return &Handler{
		streamable: mcpserver.NewStreamableHTTPServer(s,
			mcpserver.WithStateLess(true),
		),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}

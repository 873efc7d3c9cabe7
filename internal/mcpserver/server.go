package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer creates a configured MCP server with all TokenScout tools registered.
func NewMCPServer(cfg Config) *server.MCPServer {
	s := server.NewMCPServer("tokenscout", "1.0.0")
	client := NewTokenScoutClient(cfg)
	h := NewHandlers(client)

	s.AddTool(ToolResearchToken, h.HandleResearchToken)
	s.AddTool(ToolListChains, h.HandleListChains)
	s.AddTool(ToolServiceHealth, h.HandleServiceHealth)

	return s
}

package server

import (
	mcp_server "github.com/mark3labs/mcp-go/server"
)

// NewMCP creates and returns a new MCP server instance
func NewMCP(name, version string) *mcp_server.MCPServer {
	s := mcp_server.NewMCPServer(
		name,
		version,
		// Add recovery middleware to protect server from panics in handlers
		mcp_server.WithRecovery(),
	)
	return s
}

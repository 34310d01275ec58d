package tools

import (
	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/toyamagu-2021/argocd-gateway/internal/api"
)

// RegisterAll registers all defined tools with the MCP server
func RegisterAll(s *server.MCPServer, fetcher api.Fetcher) {
	// Register application_status tool
	s.AddTool(ApplicationStatusTool, HandleApplicationStatus(fetcher))

	// Register list_projects tool
	s.AddTool(ListProjectsTool, HandleListProjects(fetcher))
}

// jsonResult renders v as indented JSON text, matching the HTTP payloads.
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("Failed to format response: " + err.Error()), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/toyamagu-2021/argocd-gateway/internal/api"
	"github.com/toyamagu-2021/argocd-gateway/internal/argocd"
)

// ListProjectsTool defines the list_projects tool schema
var ListProjectsTool = mcp.NewTool("list_projects",
	mcp.WithDescription("Lists all ArgoCD project names. Returns an empty list when ArgoCD is unreachable."),
	mcp.WithDestructiveHintAnnotation(false),
)

// HandleListProjects returns the list_projects handler bound to fetcher
func HandleListProjects(fetcher api.Fetcher) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data := fetcher.Fetch(ctx, api.ProjectsPath)
		return jsonResult(argocd.ProjectListResponse{
			Projects: argocd.NormalizeProjects(data),
		})
	}
}

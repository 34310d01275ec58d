package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/toyamagu-2021/argocd-gateway/internal/api"
	"github.com/toyamagu-2021/argocd-gateway/internal/argocd"
)

// ApplicationStatusTool defines the application_status tool schema
var ApplicationStatusTool = mcp.NewTool("application_status",
	mcp.WithDescription("Lists every ArgoCD application with its sync status. Returns an empty list when ArgoCD is unreachable."),
	mcp.WithDestructiveHintAnnotation(false),
)

// HandleApplicationStatus returns the application_status handler bound to fetcher
func HandleApplicationStatus(fetcher api.Fetcher) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data := fetcher.Fetch(ctx, api.ApplicationsPath)
		return jsonResult(argocd.ApplicationStatusResponse{
			Applications: argocd.NormalizeApplications(data),
		})
	}
}

package api

import "context"

//go:generate mockgen -source=interface.go -destination=mock/mock_fetcher.go -package=mock

// Upstream API paths served by ArgoCD.
const (
	ApplicationsPath = "/api/v1/applications"
	ProjectsPath     = "/api/v1/projects"
)

// Fetcher retrieves a JSON object from the upstream API.
//
// Implementations never fail: any upstream problem yields an empty, non-nil map.
type Fetcher interface {
	Fetch(ctx context.Context, path string) map[string]interface{}
}

// Ensure Client implements Fetcher
var _ Fetcher = (*Client)(nil)

package argocd

const (
	// Unknown replaces any field missing from an upstream item.
	Unknown = "Unknown"

	// ProjectNamespace is the namespace the gateway's ArgoCD runs in. It is
	// reported for every project and never read from upstream.
	ProjectNamespace = "argocd"
)

// Application is the client-facing view of an ArgoCD application
type Application struct {
	ApplicationName string `json:"application_name"`
	Status          string `json:"status"`
}

// Project is the client-facing view of an ArgoCD project
type Project struct {
	ProjectName string `json:"project_name"`
	Namespace   string `json:"namespace"`
}

// ApplicationStatusResponse is the body of the application status endpoint
type ApplicationStatusResponse struct {
	Applications []Application `json:"applications"`
}

// ProjectListResponse is the body of the project list endpoint
type ProjectListResponse struct {
	Projects []Project `json:"projects"`
}

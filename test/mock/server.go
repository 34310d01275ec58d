// Package mock provides an in-process fake of the ArgoCD REST API for tests.
package mock

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"

	"github.com/argoproj/argo-cd/v2/pkg/apis/application/v1alpha1"
	"github.com/argoproj/gitops-engine/pkg/health"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// DefaultToken is the bearer token the fake accepts unless overridden.
const DefaultToken = "test-token"

// ArgoCDServer serves /api/v1/applications and /api/v1/projects from
// in-memory ArgoCD objects.
type ArgoCDServer struct {
	*httptest.Server

	Token string

	requests atomic.Int64

	mu         sync.Mutex
	failStatus int
	rawBodies  map[string]string
	apps       *v1alpha1.ApplicationList
	projects   *v1alpha1.AppProjectList
}

// NewArgoCDServer starts a fake loaded with DefaultApplications and
// DefaultProjects. Callers must Close it.
func NewArgoCDServer() *ArgoCDServer {
	s := &ArgoCDServer{
		Token:     DefaultToken,
		rawBodies: map[string]string{},
		apps:      DefaultApplications(),
		projects:  DefaultProjects(),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serveHTTP))
	return s
}

// Requests returns how many requests reached the fake.
func (s *ArgoCDServer) Requests() int64 {
	return s.requests.Load()
}

// FailWith makes every request answer with status. Zero restores normal
// behaviour.
func (s *ArgoCDServer) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
}

// SetRawBody serves body verbatim for path, bypassing the typed fixtures.
func (s *ArgoCDServer) SetRawBody(path, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawBodies[path] = body
}

// SetApplications replaces the application fixture.
func (s *ArgoCDServer) SetApplications(list *v1alpha1.ApplicationList) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apps = list
}

// SetProjects replaces the project fixture.
func (s *ArgoCDServer) SetProjects(list *v1alpha1.AppProjectList) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = list
}

func (s *ArgoCDServer) serveHTTP(w http.ResponseWriter, r *http.Request) {
	s.requests.Add(1)

	if r.Header.Get("Authorization") != "Bearer "+s.Token {
		writeError(w, http.StatusUnauthorized, "invalid session: token signature is invalid")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.mu.Lock()
	failStatus := s.failStatus
	raw, hasRaw := s.rawBodies[r.URL.Path]
	apps, projects := s.apps, s.projects
	s.mu.Unlock()

	if failStatus != 0 {
		writeError(w, failStatus, http.StatusText(failStatus))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if hasRaw {
		_, _ = w.Write([]byte(raw))
		return
	}

	switch r.URL.Path {
	case "/api/v1/applications":
		_ = json.NewEncoder(w).Encode(apps)
	case "/api/v1/projects":
		_ = json.NewEncoder(w).Encode(projects)
	default:
		writeError(w, http.StatusNotFound, fmt.Sprintf("Not Found: %s", r.URL.Path))
	}
}

// writeError mimics the grpc-gateway error body ArgoCD returns.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   message,
		"code":    status,
		"message": message,
	})
}

// DefaultApplications returns two applications, one synced and one out of sync.
func DefaultApplications() *v1alpha1.ApplicationList {
	return &v1alpha1.ApplicationList{
		Items: []v1alpha1.Application{
			{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "test-app-1",
					Namespace: "argocd",
				},
				Spec: v1alpha1.ApplicationSpec{
					Project: "default",
					Source: &v1alpha1.ApplicationSource{
						RepoURL:        "https://github.com/test/repo1",
						Path:           "manifests",
						TargetRevision: "main",
					},
					Destination: v1alpha1.ApplicationDestination{
						Server:    "https://kubernetes.default.svc",
						Namespace: "default",
					},
				},
				Status: v1alpha1.ApplicationStatus{
					Health: v1alpha1.HealthStatus{
						Status:  health.HealthStatusHealthy,
						Message: "All resources are healthy",
					},
					Sync: v1alpha1.SyncStatus{
						Status:   v1alpha1.SyncStatusCodeSynced,
						Revision: "abc123",
					},
				},
			},
			{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "test-app-2",
					Namespace: "argocd",
				},
				Spec: v1alpha1.ApplicationSpec{
					Project: "production",
					Source: &v1alpha1.ApplicationSource{
						RepoURL:        "https://github.com/test/repo2",
						Path:           "charts/app",
						TargetRevision: "v1.0.0",
					},
					Destination: v1alpha1.ApplicationDestination{
						Server:    "https://production.cluster.local",
						Namespace: "prod",
					},
				},
				Status: v1alpha1.ApplicationStatus{
					Health: v1alpha1.HealthStatus{
						Status:  health.HealthStatusProgressing,
						Message: "Deployment is progressing",
					},
					Sync: v1alpha1.SyncStatus{
						Status:   v1alpha1.SyncStatusCodeOutOfSync,
						Revision: "def456",
					},
				},
			},
		},
	}
}

// DefaultProjects returns the default and production projects.
func DefaultProjects() *v1alpha1.AppProjectList {
	return &v1alpha1.AppProjectList{
		Items: []v1alpha1.AppProject{
			{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "default",
					Namespace: "argocd",
				},
				Spec: v1alpha1.AppProjectSpec{
					Description: "Default project",
					SourceRepos: []string{"*"},
					Destinations: []v1alpha1.ApplicationDestination{
						{
							Server:    "*",
							Namespace: "*",
						},
					},
				},
			},
			{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "production",
					Namespace: "argocd",
				},
				Spec: v1alpha1.AppProjectSpec{
					Description: "Production project",
					SourceRepos: []string{"https://github.com/production/*"},
					Destinations: []v1alpha1.ApplicationDestination{
						{
							Server:    "https://production.cluster.local",
							Namespace: "prod-*",
						},
					},
				},
			},
		},
	}
}

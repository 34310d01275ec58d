package argocd

import (
	"github.com/sirupsen/logrus"

	"github.com/toyamagu-2021/argocd-gateway/internal/logging"
	"github.com/toyamagu-2021/argocd-gateway/internal/metrics"
)

// NormalizeApplications projects an upstream application list onto
// Application records, one per item, in upstream order.
func NormalizeApplications(collection map[string]interface{}) []Application {
	items, ok := collectionItems(collection, "applications")
	if !ok {
		return []Application{}
	}

	apps := make([]Application, 0, len(items))
	for _, item := range items {
		apps = append(apps, Application{
			ApplicationName: stringAt(item, "metadata", "name"),
			Status:          stringAt(item, "status", "sync", "status"),
		})
	}
	return apps
}

// NormalizeProjects projects an upstream project list onto Project records,
// one per item, in upstream order.
func NormalizeProjects(collection map[string]interface{}) []Project {
	items, ok := collectionItems(collection, "projects")
	if !ok {
		return []Project{}
	}

	projects := make([]Project, 0, len(items))
	for _, item := range items {
		projects = append(projects, Project{
			ProjectName: stringAt(item, "metadata", "name"),
			Namespace:   ProjectNamespace,
		})
	}
	return projects
}

// collectionItems returns the items array of an upstream list. A missing,
// null or non-array items field is reported as absent with a warning.
func collectionItems(collection map[string]interface{}, kind string) ([]interface{}, bool) {
	items, ok := collection["items"].([]interface{})
	if !ok {
		logging.WithFields(logrus.Fields{
			"kind":       kind,
			"collection": collection,
		}).Warnf("ArgoCD returned no items for %s", kind)
		metrics.MissingItems.WithLabelValues(kind).Inc()
		return nil, false
	}
	return items, true
}

// stringAt walks nested objects along path and returns the string leaf,
// or Unknown if any step is missing or of the wrong type.
func stringAt(v interface{}, path ...string) string {
	for _, key := range path {
		obj, ok := v.(map[string]interface{})
		if !ok {
			return Unknown
		}
		if v, ok = obj[key]; !ok {
			return Unknown
		}
	}
	s, ok := v.(string)
	if !ok {
		return Unknown
	}
	return s
}

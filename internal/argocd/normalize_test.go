package argocd

import (
	"encoding/json"
	"testing"

	"github.com/argoproj/argo-cd/v2/pkg/apis/application/v1alpha1"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/toyamagu-2021/argocd-gateway/internal/logging"
)

func decode(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	return m
}

func TestNormalizeApplications(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Application
	}{
		{
			name: "documented example",
			raw:  `{"items": [{"metadata": {"name": "app1"}, "status": {"sync": {"status": "Synced"}}}]}`,
			want: []Application{{ApplicationName: "app1", Status: "Synced"}},
		},
		{
			name: "missing name",
			raw:  `{"items": [{"status": {"sync": {"status": "OutOfSync"}}}]}`,
			want: []Application{{ApplicationName: Unknown, Status: "OutOfSync"}},
		},
		{
			name: "missing sync status",
			raw:  `{"items": [{"metadata": {"name": "app1"}, "status": {"health": {"status": "Healthy"}}}]}`,
			want: []Application{{ApplicationName: "app1", Status: Unknown}},
		},
		{
			name: "null intermediates",
			raw:  `{"items": [{"metadata": null, "status": {"sync": null}}]}`,
			want: []Application{{ApplicationName: Unknown, Status: Unknown}},
		},
		{
			name: "non-object item and non-string leaf",
			raw:  `{"items": ["oops", {"metadata": {"name": 42}}]}`,
			want: []Application{
				{ApplicationName: Unknown, Status: Unknown},
				{ApplicationName: Unknown, Status: Unknown},
			},
		},
		{
			name: "empty string name is kept",
			raw:  `{"items": [{"metadata": {"name": ""}}]}`,
			want: []Application{{ApplicationName: "", Status: Unknown}},
		},
		{
			name: "order and duplicates preserved",
			raw: `{"items": [
				{"metadata": {"name": "c"}, "status": {"sync": {"status": "Synced"}}},
				{"metadata": {"name": "a"}, "status": {"sync": {"status": "OutOfSync"}}},
				{"metadata": {"name": "c"}, "status": {"sync": {"status": "Synced"}}}
			]}`,
			want: []Application{
				{ApplicationName: "c", Status: "Synced"},
				{ApplicationName: "a", Status: "OutOfSync"},
				{ApplicationName: "c", Status: "Synced"},
			},
		},
		{
			name: "empty items",
			raw:  `{"items": []}`,
			want: []Application{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeApplications(decode(t, tt.raw))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeProjects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Project
	}{
		{
			name: "named projects",
			raw:  `{"items": [{"metadata": {"name": "default", "namespace": "other"}}, {"metadata": {"name": "prod"}}]}`,
			want: []Project{
				{ProjectName: "default", Namespace: "argocd"},
				{ProjectName: "prod", Namespace: "argocd"},
			},
		},
		{
			name: "missing metadata",
			raw:  `{"items": [{}]}`,
			want: []Project{{ProjectName: Unknown, Namespace: "argocd"}},
		},
		{
			name: "empty items",
			raw:  `{"items": []}`,
			want: []Project{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeProjects(decode(t, tt.raw))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_MissingItems(t *testing.T) {
	logging.Configure("info", "text")
	hook := test.NewLocal(logging.GetLogger())
	defer hook.Reset()

	collections := map[string]map[string]interface{}{
		"absent":        {},
		"null":          {"items": nil},
		"not an array":  {"items": map[string]interface{}{"metadata": "x"}},
		"nil map":       nil,
		"metadata only": {"metadata": map[string]interface{}{"resourceVersion": "1"}},
	}

	for name, collection := range collections {
		t.Run(name, func(t *testing.T) {
			hook.Reset()

			apps := NormalizeApplications(collection)
			require.NotNil(t, apps)
			assert.Empty(t, apps)

			projects := NormalizeProjects(collection)
			require.NotNil(t, projects)
			assert.Empty(t, projects)

			entries := hook.AllEntries()
			require.Len(t, entries, 2)
			for _, e := range entries {
				assert.Equal(t, logrus.WarnLevel, e.Level)
			}
			assert.Equal(t, "ArgoCD returned no items for applications", entries[0].Message)
			assert.Equal(t, "ArgoCD returned no items for projects", entries[1].Message)
		})
	}
}

func TestNormalize_LengthMatchesItems(t *testing.T) {
	for _, n := range []int{0, 1, 7, 100} {
		items := make([]interface{}, n)
		for i := range items {
			items[i] = map[string]interface{}{}
		}
		collection := map[string]interface{}{"items": items}

		assert.Len(t, NormalizeApplications(collection), n)
		assert.Len(t, NormalizeProjects(collection), n)
	}
}

// Upstream payloads serialized from the real ArgoCD API types.
func TestNormalize_ArgoCDTypes(t *testing.T) {
	apps := v1alpha1.ApplicationList{
		Items: []v1alpha1.Application{
			{
				ObjectMeta: metav1.ObjectMeta{Name: "guestbook", Namespace: "argocd"},
				Status: v1alpha1.ApplicationStatus{
					Sync: v1alpha1.SyncStatus{Status: v1alpha1.SyncStatusCodeSynced},
				},
			},
			{
				ObjectMeta: metav1.ObjectMeta{Name: "billing", Namespace: "argocd"},
				Status: v1alpha1.ApplicationStatus{
					Sync: v1alpha1.SyncStatus{Status: v1alpha1.SyncStatusCodeOutOfSync},
				},
			},
		},
	}
	raw, err := json.Marshal(apps)
	require.NoError(t, err)

	assert.Equal(t, []Application{
		{ApplicationName: "guestbook", Status: "Synced"},
		{ApplicationName: "billing", Status: "OutOfSync"},
	}, NormalizeApplications(decode(t, string(raw))))

	// An empty list marshals with "items": null.
	raw, err = json.Marshal(v1alpha1.AppProjectList{})
	require.NoError(t, err)
	assert.Equal(t, []Project{}, NormalizeProjects(decode(t, string(raw))))

	raw, err = json.Marshal(v1alpha1.AppProjectList{
		Items: []v1alpha1.AppProject{{ObjectMeta: metav1.ObjectMeta{Name: "default"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, []Project{{ProjectName: "default", Namespace: ProjectNamespace}}, NormalizeProjects(decode(t, string(raw))))
}

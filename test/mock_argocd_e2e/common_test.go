package mockargocde2e

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/toyamagu-2021/argocd-gateway/internal/api"
	"github.com/toyamagu-2021/argocd-gateway/internal/config"
	"github.com/toyamagu-2021/argocd-gateway/internal/server"
	"github.com/toyamagu-2021/argocd-gateway/test/mock"
)

type gateway struct {
	*httptest.Server
	client *api.Client
	logs   *test.Hook
}

// startGateway wires a real client and HTTP server against baseURL.
func startGateway(t *testing.T, baseURL, token string) *gateway {
	t.Helper()

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	client, err := api.NewClient(api.Config{
		BaseURL:   baseURL,
		AuthToken: token,
	}, api.WithLogger(logger))
	require.NoError(t, err)

	srv := server.NewHTTP(config.ServerConfig{
		Host: "127.0.0.1",
		Name: "argocd-gateway-e2e",
	}, client)

	gw := &gateway{
		Server: httptest.NewServer(srv.Handler()),
		client: client,
		logs:   hook,
	}
	t.Cleanup(func() {
		gw.Close()
		client.Close()
	})
	return gw
}

func startArgoCD(t *testing.T) *mock.ArgoCDServer {
	t.Helper()
	argo := mock.NewArgoCDServer()
	t.Cleanup(argo.Close)
	return argo
}

// getJSON performs a GET and decodes the body into a generic map.
func getJSON(t *testing.T, url string) (int, map[string]interface{}) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded), "body: %s", body)
	return resp.StatusCode, decoded
}

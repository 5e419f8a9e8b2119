package http_test

import (
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	traek "github.com/traek/traek-go"
	httpadapter "github.com/traek/traek-go/pkg/adapters/http"
	"github.com/traek/traek-go/pkg/domain"
)

func newTestServer(t *testing.T) (*traek.Engine, *httptest.Server) {
	t.Helper()
	engine := traek.New()
	srv := httptest.NewServer(httpadapter.NewHandler(engine))
	t.Cleanup(srv.Close)
	return engine, srv
}

func getJSON(t *testing.T, url string, out any) *nethttp.Response {
	t.Helper()
	resp, err := nethttp.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func readBody(t *testing.T, resp *nethttp.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestHealthAndInfo(t *testing.T) {
	_, srv := newTestServer(t)

	var health map[string]string
	resp := getJSON(t, srv.URL+"/health", &health)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", health["status"])

	var info map[string]string
	getJSON(t, srv.URL+"/info", &info)
	assert.Equal(t, "traek-http", info["app"])
	assert.Equal(t, traek.Version, info["version"])
}

func TestAddAndGetNode(t *testing.T) {
	engine, srv := newTestServer(t)

	body := strings.NewReader(`{"content": "hello", "role": "user"}`)
	resp, err := nethttp.Post(srv.URL+"/nodes", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)

	var created domain.Node
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.RoleUser, created.Role)
	assert.Equal(t, 1, engine.Len())

	var fetched domain.Node
	getResp := getJSON(t, srv.URL+"/nodes/"+created.ID, &fetched)
	assert.Equal(t, nethttp.StatusOK, getResp.StatusCode)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "hello", fetched.Content)
}

func TestAddNodeRejectsBadInput(t *testing.T) {
	_, srv := newTestServer(t)

	t.Run("invalid role", func(t *testing.T) {
		resp, err := nethttp.Post(srv.URL+"/nodes", "application/json",
			strings.NewReader(`{"content": "x", "role": "wizard"}`))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp, err := nethttp.Post(srv.URL+"/nodes", "application/json",
			strings.NewReader("{nope"))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetUnknownNode(t *testing.T) {
	_, srv := newTestServer(t)
	resp, err := nethttp.Get(srv.URL + "/nodes/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}

func TestListNodes(t *testing.T) {
	engine, srv := newTestServer(t)
	engine.AddNode("a", domain.RoleUser)
	active := engine.AddNode("b", domain.RoleAssistant)

	var listing struct {
		Count        int    `json:"count"`
		ActiveNodeID string `json:"activeNodeId"`
	}
	getJSON(t, srv.URL+"/nodes", &listing)
	assert.Equal(t, 2, listing.Count)
	assert.Equal(t, active.ID, listing.ActiveNodeID)
}

func TestDeleteAndRestore(t *testing.T) {
	engine, srv := newTestServer(t)
	engine.AddNode("root", domain.RoleUser)
	branch := engine.AddNode("branch", domain.RoleAssistant)
	engine.AddNode("leaf", domain.RoleUser)

	req, err := nethttp.NewRequest(nethttp.MethodDelete, srv.URL+"/nodes/"+branch.ID+"?recursive=true", nil)
	require.NoError(t, err)
	resp, err := nethttp.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	var deleted map[string]int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&deleted))
	assert.Equal(t, 2, deleted["deleted"])
	assert.Equal(t, 1, engine.Len())

	restoreResp, err := nethttp.Post(srv.URL+"/restore", "application/json", nil)
	require.NoError(t, err)
	defer restoreResp.Body.Close()
	var restored map[string]bool
	require.NoError(t, json.NewDecoder(restoreResp.Body).Decode(&restored))
	assert.True(t, restored["restored"])
	assert.Equal(t, 3, engine.Len())
}

func TestDeleteUnknownNode(t *testing.T) {
	_, srv := newTestServer(t)
	req, err := nethttp.NewRequest(nethttp.MethodDelete, srv.URL+"/nodes/missing", nil)
	require.NoError(t, err)
	resp, err := nethttp.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}

func TestSearchEndpoint(t *testing.T) {
	engine, srv := newTestServer(t)
	match := engine.AddNode("the needle", domain.RoleUser)
	engine.AddNode("hay", domain.RoleAssistant)

	var result struct {
		Query   string   `json:"query"`
		Matches []string `json:"matches"`
		Count   int      `json:"count"`
	}
	getJSON(t, srv.URL+"/search?q=needle", &result)
	assert.Equal(t, "needle", result.Query)
	assert.Equal(t, []string{match.ID}, result.Matches)
	assert.Equal(t, 1, result.Count)
}

func TestContextPathEndpoint(t *testing.T) {
	engine, srv := newTestServer(t)
	engine.AddNode("root", domain.RoleUser)
	engine.AddNode("leaf", domain.RoleAssistant)

	var result struct {
		Path  []domain.Node `json:"path"`
		Count int           `json:"count"`
	}
	getJSON(t, srv.URL+"/path", &result)
	require.Equal(t, 2, result.Count)
	assert.Equal(t, "root", result.Path[0].Content)
	assert.Equal(t, "leaf", result.Path[1].Content)
}

func TestSnapshotEndpoint(t *testing.T) {
	engine, srv := newTestServer(t)
	engine.AddNode("x", domain.RoleUser)

	var snap domain.ConversationSnapshot
	getJSON(t, srv.URL+"/snapshot?title=test", &snap)
	assert.Equal(t, domain.SnapshotVersion, snap.Version)
	assert.Equal(t, "test", snap.Title)
	assert.Len(t, snap.Nodes, 1)
}

func TestGraphEndpoint(t *testing.T) {
	engine, srv := newTestServer(t)
	engine.AddNode("root", domain.RoleUser)

	resp, err := nethttp.Get(srv.URL + "/graph")
	require.NoError(t, err)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "graph TD")
}

func TestMetricsEndpoint(t *testing.T) {
	engine, srv := newTestServer(t)
	engine.AddNode("a", domain.RoleUser)
	engine.AddNode("b", domain.RoleAssistant)

	resp, err := nethttp.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	body := readBody(t, resp)
	assert.Contains(t, body, "traek_nodes 2")
	assert.Contains(t, body, "traek_notifications_total")
}

func TestCORSHeaders(t *testing.T) {
	_, srv := newTestServer(t)
	resp, err := nethttp.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

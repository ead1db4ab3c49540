package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/yfinance-mcp/internal/app"
	"github.com/bobmcallan/yfinance-mcp/internal/clients/yahoo"
	"github.com/bobmcallan/yfinance-mcp/internal/common"
)

// testServer creates an httptest.Server with the full handler for the given transport.
func testServer(t *testing.T, transport string) *httptest.Server {
	t.Helper()
	cfg := common.NewDefaultConfig()
	cfg.Server.Transport = transport

	a := app.NewAppWithProvider(cfg, common.NewSilentLogger(), yahoo.NewClient(yahoo.WithBaseURL("http://127.0.0.1:1")))
	t.Cleanup(a.Close)

	srv := NewServer(a)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestHealthEndpoint(t *testing.T) {
	ts := testServer(t, common.TransportStreamableHTTP)

	resp, err := http.Get(ts.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Correlation-ID"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestHealthEndpoint_MethodNotAllowed(t *testing.T) {
	ts := testServer(t, common.TransportStreamableHTTP)

	resp, err := http.Post(ts.URL+"/api/health", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "GET, HEAD", resp.Header.Get("Allow"))
}

func TestVersionEndpoint(t *testing.T) {
	ts := testServer(t, common.TransportSSE)

	resp, err := http.Get(ts.URL + "/api/version")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, common.GetVersion(), body["version"])
	assert.Equal(t, common.TransportSSE, body["transport"])
	assert.Equal(t, common.GetGitCommit(), body["git_commit"])
	assert.Equal(t, runtime.Version(), body["go_version"])
	assert.NotEmpty(t, body["uptime"])
}

func TestCorrelationIDIsEchoed(t *testing.T) {
	ts := testServer(t, common.TransportStreamableHTTP)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "abc123", resp.Header.Get("X-Correlation-ID"))
}

func TestToolCatalog(t *testing.T) {
	ts := testServer(t, common.TransportStreamableHTTP)

	resp, err := http.Get(ts.URL + "/api/mcp/tools")
	require.NoError(t, err)
	defer resp.Body.Close()

	var catalog []toolSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&catalog))
	require.Len(t, catalog, 10)
	assert.Equal(t, "get_version", catalog[0].Name)

	var options toolSummary
	for _, c := range catalog {
		if c.Name == "get_options_chain" {
			options = c
		}
	}
	assert.Equal(t, []string{"ticker"}, options.Required)
	assert.Contains(t, options.Params, "dte")
	assert.Contains(t, options.Params, "target_date")
}

func TestStreamableHTTP_Initialize(t *testing.T) {
	ts := testServer(t, common.TransportStreamableHTTP)

	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1.0.0"}}}`
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/mcp", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(out), app.ServerName)
}

func TestSSETransport_DoesNotServeMCPPath(t *testing.T) {
	ts := testServer(t, common.TransportSSE)

	resp, err := http.Post(ts.URL+"/mcp", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPublicBaseURL(t *testing.T) {
	cfg := common.NewDefaultConfig()
	assert.Equal(t, "http://localhost:8000", publicBaseURL(cfg))

	cfg.Server.Host = "10.0.0.5"
	cfg.Server.Port = 9000
	assert.Equal(t, "http://10.0.0.5:9000", publicBaseURL(cfg))
}

func TestWriteJSON_EncodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	err := WriteJSON(rec, http.StatusOK, map[string]interface{}{"bad": make(chan int)})
	require.Error(t, err)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestRespond_LogsEncodeFailure(t *testing.T) {
	var buf bytes.Buffer
	s := &Server{logger: common.NewLoggerWithOutput("debug", &buf)}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	s.respond(rec, req, http.StatusOK, make(chan int))

	assert.Contains(t, buf.String(), "Failed to write response")
	assert.Contains(t, buf.String(), `"path":"/api/version"`)
}

package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/yfinance-mcp/internal/clients/yahoo"
	"github.com/bobmcallan/yfinance-mcp/internal/common"
)

var expectedTools = []string{
	"get_version",
	"get_stock_info",
	"get_stock_history",
	"get_stock_financials",
	"get_stock_recommendations",
	"get_stock_news",
	"get_multiple_quotes",
	"search_stocks",
	"get_earnings_dates",
	"get_options_chain",
}

// fakeChart serves a two-bar AAPL chart and nothing else
func fakeChart(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v8/finance/chart/AAPL", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"chart":{"result":[{"meta":{"symbol":"AAPL"},
			"timestamp":[1733097600,1733184000],
			"indicators":{"quote":[{
				"open":[100,101],"high":[105,110],"low":[95,100],
				"close":[100,108],"volume":[10,20]}]}}],"error":null}}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T, baseURL string) *App {
	t.Helper()
	cfg := common.NewDefaultConfig()
	provider := yahoo.NewClient(
		yahoo.WithBaseURL(baseURL),
		yahoo.WithSessionURLs(baseURL+"/cookie", baseURL+"/crumb"),
		yahoo.WithRateLimit(1000),
		yahoo.WithTimeout(5*time.Second),
	)
	a := NewAppWithProvider(cfg, common.NewSilentLogger(), provider)
	t.Cleanup(a.Close)
	return a
}

// newInProcessClient creates an mcp-go in-process client connected to the given
// MCP server. Handles initialization handshake.
func newInProcessClient(t *testing.T, mcpServer *server.MCPServer) *client.Client {
	t.Helper()

	c, err := client.NewInProcessClient(mcpServer)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}
	_, err = c.Initialize(ctx, initReq)
	require.NoError(t, err)
	return c
}

func TestNewAppWithProvider_RegistersAllTools(t *testing.T) {
	a := newTestApp(t, "http://127.0.0.1:1")
	c := newInProcessClient(t, a.MCPServer)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	toolsResult, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	require.NoError(t, err)

	names := make(map[string]mcp.Tool)
	for _, tool := range toolsResult.Tools {
		names[tool.Name] = tool
	}
	assert.Len(t, names, len(expectedTools))
	for _, name := range expectedTools {
		tool, ok := names[name]
		if !assert.True(t, ok, "tool %s not registered", name) {
			continue
		}
		require.NotNil(t, tool.Annotations.ReadOnlyHint, name)
		assert.True(t, *tool.Annotations.ReadOnlyHint, name)
	}

	options := names["get_options_chain"]
	assert.Contains(t, options.InputSchema.Required, "ticker")
	assert.Contains(t, options.InputSchema.Properties, "strikes_near_price")
	assert.Contains(t, options.InputSchema.Properties, "response_format")
}

func TestApp_CallToolEndToEnd(t *testing.T) {
	srv := fakeChart(t)
	a := newTestApp(t, srv.URL)
	c := newInProcessClient(t, a.MCPServer)

	req := mcp.CallToolRequest{}
	req.Params.Name = "get_stock_history"
	req.Params.Arguments = map[string]interface{}{
		"ticker":       "aapl",
		"summary_only": true,
	}
	result, err := c.CallTool(context.Background(), req)
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := result.Content[0].(mcp.TextContent).Text
	assert.Contains(t, text, "# AAPL Price History")
	assert.Contains(t, text, "**High:** 110.00")
	assert.Contains(t, text, "**Average Close:** 104.00")
	assert.Contains(t, text, "**Total Volume:** 30")
}

func TestApp_UnknownTickerIsToolError(t *testing.T) {
	srv := fakeChart(t)
	a := newTestApp(t, srv.URL)
	c := newInProcessClient(t, a.MCPServer)

	req := mcp.CallToolRequest{}
	req.Params.Name = "get_stock_history"
	req.Params.Arguments = map[string]interface{}{"ticker": "ZZZZ", "response_format": "json"}
	result, err := c.CallTool(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content[0].(mcp.TextContent).Text, `"kind": "not_found"`)
}

func TestNewApp_LoadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "yfinance-mcp.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[response]
character_limit = 1234

[tools]
max_quote_tickers = 5

[logging]
level = "error"
`), 0o644))

	a, err := NewApp(path)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, 1234, a.Config.Response.CharacterLimit)
	assert.Equal(t, 5, a.Config.Tools.MaxQuoteTickers)
	assert.NotNil(t, a.Provider)
	assert.NotNil(t, a.MarketService)
	assert.False(t, a.StartupTime.IsZero())
}

func TestNewApp_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\ntransport = \"carrier-pigeon\"\n"), 0o644))

	_, err := NewApp(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestResolveConfigPath(t *testing.T) {
	assert.Equal(t, "explicit.toml", ResolveConfigPath("explicit.toml"))

	t.Setenv("YFMCP_CONFIG", "/etc/yfinance-mcp.toml")
	assert.Equal(t, "/etc/yfinance-mcp.toml", ResolveConfigPath(""))
}

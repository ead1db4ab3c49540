package server

import (
	"net/http"
	"sort"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/yfinance-mcp/internal/common"
)

// registerRoutes sets up the MCP endpoint for the transport and the REST routes.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	switch s.app.Config.Server.Transport {
	case common.TransportSSE:
		s.sse = mcpserver.NewSSEServer(s.app.MCPServer,
			mcpserver.WithBaseURL(publicBaseURL(s.app.Config)),
		)
		mux.Handle("/sse", s.sse.SSEHandler())
		mux.Handle("/message", s.sse.MessageHandler())
	default:
		mux.Handle("/mcp", mcpserver.NewStreamableHTTPServer(s.app.MCPServer,
			mcpserver.WithStateLess(true),
		))
	}

	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/mcp/tools", s.handleToolCatalog)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	s.respond(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	s.respond(w, r, http.StatusOK, versionResponse{
		VersionInfo: common.GetVersionInfo(),
		Transport:   s.app.Config.Server.Transport,
		Uptime:      time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}

// versionResponse is the body of GET /api/version
type versionResponse struct {
	common.VersionInfo
	Transport string `json:"transport"`
	Uptime    string `json:"uptime"`
}

// toolSummary is one entry of GET /api/mcp/tools
type toolSummary struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Required    []string `json:"required,omitempty"`
	Params      []string `json:"params,omitempty"`
}

func (s *Server) handleToolCatalog(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodGet) {
		return
	}
	catalog := make([]toolSummary, 0, len(s.app.Tools))
	for _, t := range s.app.Tools {
		entry := toolSummary{
			Name:        t.Name,
			Description: t.Description,
			Required:    t.InputSchema.Required,
		}
		for name := range t.InputSchema.Properties {
			entry.Params = append(entry.Params, name)
		}
		sort.Strings(entry.Params)
		catalog = append(catalog, entry)
	}
	s.respond(w, r, http.StatusOK, catalog)
}

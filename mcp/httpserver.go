package mcp

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/foomo/contentserver-richtext/service"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// NewMcpHTTPServer creates a new MCP HTTP server with traditional MCP endpoints
func NewMcpHTTPServer(s *server.MCPServer, endpoint string) *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(
		s,
		server.WithEndpointPath(endpoint),
	)
}

// SiteHTTPServer serves the MCP endpoint next to read-only JSON page
// endpoints:
//
//	GET /api                  sections
//	GET /api/{section}        page summaries
//	GET /api/{section}/{slug} page
type SiteHTTPServer struct {
	logger  *zap.Logger
	mux     *http.ServeMux
	service service.Service
}

// NewSiteHTTPServer creates the combined handler. A nil service answers the
// page endpoints with 503.
func NewSiteHTTPServer(logger *zap.Logger, s *server.MCPServer, serviceInstance service.Service, endpoint string) *SiteHTTPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	site := &SiteHTTPServer{
		logger:  logger,
		mux:     http.NewServeMux(),
		service: serviceInstance,
	}

	site.mux.Handle(endpoint, NewMcpHTTPServer(s, endpoint))
	site.mux.HandleFunc("GET /api", site.handleSections)
	site.mux.HandleFunc("GET /api/{section}", site.handleListPages)
	site.mux.HandleFunc("GET /api/{section}/{slug}", site.handleGetPage)
	return site
}

// ServeHTTP implements http.Handler
func (s *SiteHTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m := httpsnoop.CaptureMetrics(s.mux, w, r)
	s.logger.Debug("handled request",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", m.Code),
		zap.Int64("bytes", m.Written),
		zap.Duration("duration", m.Duration),
	)
}

func (s *SiteHTTPServer) handleSections(w http.ResponseWriter, r *http.Request) {
	if s.service == nil {
		s.writeError(w, http.StatusServiceUnavailable, "page service not available")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sections": s.service.Sections()})
}

func (s *SiteHTTPServer) handleListPages(w http.ResponseWriter, r *http.Request) {
	if s.service == nil {
		s.writeError(w, http.StatusServiceUnavailable, "page service not available")
		return
	}
	section := r.PathValue("section")
	pages, err := s.service.ListPages(r.Context(), section)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ListPagesResponse{Section: section, Pages: pages})
}

func (s *SiteHTTPServer) handleGetPage(w http.ResponseWriter, r *http.Request) {
	if s.service == nil {
		s.writeError(w, http.StatusServiceUnavailable, "page service not available")
		return
	}
	page, err := s.service.GetPage(r.Context(), r.PathValue("section"), r.PathValue("slug"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, GetPageResponse{Page: page})
}

func (s *SiteHTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrUnknownSection) {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.logger.Error("page service failed", zap.Error(err))
	s.writeError(w, http.StatusBadGateway, "failed to load content")
}

func (s *SiteHTTPServer) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *SiteHTTPServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", zap.Error(err))
	}
}

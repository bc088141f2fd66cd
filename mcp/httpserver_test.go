package mcp

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteHTTPServer(t *testing.T) {
	svc := newFakeService()
	site := NewSiteHTTPServer(nil, NewServer(svc, nil), svc, "/mcp")

	tests := []struct {
		path   string
		status int
	}{
		{"/api", http.StatusOK},
		{"/api/docs", http.StatusOK},
		{"/api/docs/install", http.StatusOK},
		{"/api/docs/missing", http.StatusNotFound},
		{"/api/recipes", http.StatusNotFound},
		{"/nothing", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			site.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestSiteHTTPServerPage(t *testing.T) {
	svc := newFakeService()
	site := NewSiteHTTPServer(nil, NewServer(svc, nil), svc, "/mcp")

	rec := httptest.NewRecorder()
	site.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/install", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var response GetPageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "install", response.Page.Slug)

	rec = httptest.NewRecorder()
	site.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/docs", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSiteHTTPServerErrors(t *testing.T) {
	svc := &fakeService{err: errors.New("upstream down")}
	site := NewSiteHTTPServer(nil, NewServer(svc, nil), svc, "/mcp")
	rec := httptest.NewRecorder()
	site.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "upstream down")

	site = NewSiteHTTPServer(nil, NewServer(nil, nil), nil, "/mcp")
	rec = httptest.NewRecorder()
	site.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/install", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

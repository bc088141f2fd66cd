// Package contentful is a small client for the Contentful Content Delivery
// API. It fetches entries of a content type and resolves linked assets and
// entries from the response includes.
package contentful

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/foomo/contentserver-richtext/service"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL     = "https://cdn.contentful.com"
	DefaultEnvironment = "master"
	DefaultInclude     = 10
	maxInclude         = 10
)

var ErrMissingCredentials = errors.New("missing contentful space id or access token")

type Config struct {
	SpaceID     string `yaml:"spaceId"`
	AccessToken string `yaml:"accessToken"`
	Environment string `yaml:"environment"`
	BaseURL     string `yaml:"baseUrl"`
	Locale      string `yaml:"locale"`
	Include     int    `yaml:"include"` // Link levels resolved by the API, 0 to 10
}

// APIError is returned for every non-200 response.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("contentful: %d %s (request %s)", e.StatusCode, e.Message, e.RequestID)
	}
	return fmt.Sprintf("contentful: %d %s", e.StatusCode, e.Message)
}

type Client struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
}

var _ service.Source = (*Client)(nil)

func New(config Config, httpClient *http.Client, logger *zap.Logger) (*Client, error) {
	if config.SpaceID == "" || config.AccessToken == "" {
		return nil, ErrMissingCredentials
	}
	if config.Environment == "" {
		config.Environment = DefaultEnvironment
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Include <= 0 {
		config.Include = DefaultInclude
	}
	if config.Include > maxInclude {
		config.Include = maxInclude
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		config:     config,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

type entriesResponse struct {
	Total    int        `json:"total"`
	Items    []resource `json:"items"`
	Includes struct {
		Entry []resource `json:"Entry"`
		Asset []resource `json:"Asset"`
	} `json:"includes"`
}

type resource struct {
	Sys    sys            `json:"sys"`
	Fields map[string]any `json:"fields"`
}

type sys struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	LinkType  string `json:"linkType,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

type errorResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"requestId"`
}

// Entries returns every entry of the content type.
func (c *Client) Entries(ctx context.Context, contentType string) ([]service.Entry, error) {
	query := url.Values{}
	query.Set("content_type", contentType)
	resp, err := c.getEntries(ctx, query)
	if err != nil {
		return nil, err
	}
	links := newLinkIndex(resp)
	entries := make([]service.Entry, 0, len(resp.Items))
	for _, item := range resp.Items {
		entries = append(entries, links.entry(item))
	}
	return entries, nil
}

// EntryBySlug returns the first entry of the content type whose slug field
// matches, or service.ErrNotFound.
func (c *Client) EntryBySlug(ctx context.Context, contentType, slug string) (*service.Entry, error) {
	query := url.Values{}
	query.Set("content_type", contentType)
	query.Set("fields.slug", slug)
	query.Set("limit", "1")
	resp, err := c.getEntries(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, service.ErrNotFound
	}
	entry := newLinkIndex(resp).entry(resp.Items[0])
	return &entry, nil
}

func (c *Client) getEntries(ctx context.Context, query url.Values) (*entriesResponse, error) {
	query.Set("include", strconv.Itoa(c.config.Include))
	if c.config.Locale != "" {
		query.Set("locale", c.config.Locale)
	}
	endpoint := fmt.Sprintf("%s/spaces/%s/environments/%s/entries?%s",
		c.config.BaseURL,
		url.PathEscape(c.config.SpaceID),
		url.PathEscape(c.config.Environment),
		query.Encode(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entries: %w", err)
	}
	defer resp.Body.Close()
	c.logger.Debug("fetched entries",
		zap.String("contentType", query.Get("content_type")),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var entries entriesResponse
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode entries: %w", err)
	}
	return &entries, nil
}

func readAPIError(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}
	var errResp errorResponse
	if json.Unmarshal(body, &errResp) == nil {
		if errResp.Message != "" {
			apiErr.Message = errResp.Message
		}
		apiErr.RequestID = errResp.RequestID
	}
	return apiErr
}

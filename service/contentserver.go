package service

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"time"

	contentserverclient "github.com/foomo/contentserver/client"
	"github.com/foomo/contentserver/content"
	"github.com/foomo/contentserver/requests"
)

// NodeGetter is the part of the contentserver client used by
// ContentServerSource.
type NodeGetter interface {
	GetNodes(ctx context.Context, env *requests.Env, nodes map[string]*requests.Node) (map[string]*content.Node, error)
}

type ContentServerSettings struct {
	URL       string
	RootID    string
	Dimension string
	Env       *requests.Env
}

// ContentServerSource reads page entries from the item tree below a root node
// of a contentserver. Items are matched by mime type, which carries the content
// type; their data holds title, slug, content, metaDescription and updatedAt.
type ContentServerSource struct {
	client   NodeGetter
	settings ContentServerSettings
}

func NewContentServerSource(settings ContentServerSettings, httpClient *http.Client) *ContentServerSource {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	contentServerClient := contentserverclient.New(
		contentserverclient.NewHTTPTransport(
			settings.URL,
			contentserverclient.HTTPTransportWithHTTPClient(httpClient),
		))
	return NewContentServerSourceWithClient(settings, contentServerClient)
}

func NewContentServerSourceWithClient(settings ContentServerSettings, client NodeGetter) *ContentServerSource {
	if settings.Env == nil {
		settings.Env = &requests.Env{}
	}
	if settings.Dimension != "" && len(settings.Env.Dimensions) == 0 {
		settings.Env.Dimensions = []string{settings.Dimension}
	}
	return &ContentServerSource{
		client:   client,
		settings: settings,
	}
}

func (s *ContentServerSource) Entries(ctx context.Context, contentType string) ([]Entry, error) {
	nodes, err := s.client.GetNodes(ctx, s.settings.Env, map[string]*requests.Node{
		s.settings.RootID: {
			ID:        s.settings.RootID,
			Dimension: s.settings.Dimension,
			MimeTypes: []string{contentType},
			Expand:    true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get nodes: %w", err)
	}
	root, ok := nodes[s.settings.RootID]
	if !ok || root == nil {
		return nil, fmt.Errorf("root node %q: %w", s.settings.RootID, ErrNotFound)
	}

	var entries []Entry
	var walk func(*content.Node)
	walk = func(n *content.Node) {
		if n.Item != nil && n.Item.MimeType == contentType {
			entries = append(entries, entryFromItem(n.Item))
		}
		for _, id := range n.Index {
			if child, ok := n.Nodes[id]; ok && child != nil {
				walk(child)
			}
		}
	}
	walk(root)
	return entries, nil
}

func (s *ContentServerSource) EntryBySlug(ctx context.Context, contentType, slug string) (*Entry, error) {
	entries, err := s.Entries(ctx, contentType)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].Slug == slug {
			return &entries[i], nil
		}
	}
	return nil, ErrNotFound
}

func entryFromItem(item *content.Item) Entry {
	entry := Entry{
		ID:              item.ID,
		Title:           dataString(item.Data, "title"),
		Slug:            dataString(item.Data, "slug"),
		Content:         item.Data["content"],
		MetaDescription: dataString(item.Data, "metaDescription"),
	}
	if entry.Title == "" {
		entry.Title = item.Name
	}
	if entry.Slug == "" && item.URI != "" {
		entry.Slug = path.Base(item.URI)
	}
	if updatedAt, err := time.Parse(time.RFC3339, dataString(item.Data, "updatedAt")); err == nil {
		entry.UpdatedAt = updatedAt
	}
	return entry
}

func dataString(data map[string]interface{}, key string) string {
	s, _ := data[key].(string)
	return s
}

package contentful

import (
	"maps"
	"slices"
	"time"

	"github.com/foomo/contentserver-richtext/service"
)

// maxLinkDepth bounds how often a resolved include is itself resolved.
const maxLinkDepth = 10

// linkIndex resolves links against the includes of one response. Within one
// entry every include is resolved once and the copy is shared by all links to
// it. A link back to an include that is still being resolved stays a link.
type linkIndex struct {
	includes map[string]map[string]any
	resolved map[string]any
	active   map[string]bool
}

func linkKey(linkType, id string) string {
	return linkType + ":" + id
}

func newLinkIndex(resp *entriesResponse) *linkIndex {
	idx := &linkIndex{
		includes: map[string]map[string]any{},
		resolved: map[string]any{},
		active:   map[string]bool{},
	}
	add := func(linkType string, resources []resource) {
		for _, r := range resources {
			idx.includes[linkKey(linkType, r.Sys.ID)] = map[string]any{
				"sys": map[string]any{
					"id":   r.Sys.ID,
					"type": r.Sys.Type,
				},
				"fields": r.Fields,
			}
		}
	}
	add("Asset", resp.Includes.Asset)
	add("Entry", resp.Includes.Entry)
	// Items may link to each other.
	for _, item := range resp.Items {
		key := linkKey("Entry", item.Sys.ID)
		if _, ok := idx.includes[key]; !ok {
			idx.includes[key] = map[string]any{
				"sys":    map[string]any{"id": item.Sys.ID, "type": item.Sys.Type},
				"fields": item.Fields,
			}
		}
	}
	return idx
}

// resolve returns a copy of v in which every link object with a matching
// include is replaced by that include. Unresolvable links are kept.
func (idx *linkIndex) resolve(v any, depth int) any {
	switch x := v.(type) {
	case map[string]any:
		if linkType, id, ok := asLink(x); ok {
			return idx.follow(x, linkKey(linkType, id), depth)
		}
		out := make(map[string]any, len(x))
		// sorted keys keep the cycle cuts deterministic
		for _, k := range slices.Sorted(maps.Keys(x)) {
			out[k] = idx.resolve(x[k], depth)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = idx.resolve(val, depth)
		}
		return out
	}
	return v
}

func (idx *linkIndex) follow(link map[string]any, key string, depth int) any {
	if idx.active[key] {
		return link
	}
	if done, ok := idx.resolved[key]; ok {
		return done
	}
	target, found := idx.includes[key]
	if !found || depth >= maxLinkDepth {
		return link
	}
	idx.active[key] = true
	out := idx.resolve(target, depth+1)
	delete(idx.active, key)
	idx.resolved[key] = out
	return out
}

// asLink reports whether m is a {"sys":{"type":"Link",...}} reference.
func asLink(m map[string]any) (linkType, id string, ok bool) {
	s, _ := m["sys"].(map[string]any)
	if s == nil {
		return "", "", false
	}
	if t, _ := s["type"].(string); t != "Link" {
		return "", "", false
	}
	linkType, _ = s["linkType"].(string)
	id, _ = s["id"].(string)
	return linkType, id, linkType != "" && id != ""
}

// entry maps an item to a service entry. The item counts as being resolved
// while its fields are, so a page does not embed itself.
func (idx *linkIndex) entry(item resource) service.Entry {
	idx.resolved = map[string]any{}
	self := linkKey("Entry", item.Sys.ID)
	idx.active[self] = true
	fields, _ := idx.resolve(item.Fields, 0).(map[string]any)
	delete(idx.active, self)
	entry := service.Entry{
		ID:              item.Sys.ID,
		Title:           stringField(fields, "title"),
		Slug:            stringField(fields, "slug"),
		Content:         fields["content"],
		MetaDescription: stringField(fields, "metaDescription"),
	}
	if updatedAt, err := time.Parse(time.RFC3339Nano, item.Sys.UpdatedAt); err == nil {
		entry.UpdatedAt = updatedAt
	}
	return entry
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

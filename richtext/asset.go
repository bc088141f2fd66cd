package richtext

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Asset is an embedded asset reference resolved for rendering.
type Asset struct {
	URL    string
	Width  string
	Height string
	Alt    string
}

// ResolveAsset resolves data.target.fields of an embedded asset node.
// Two shapes are accepted: fields.file.url with file.details.image sizes, and
// flat url/width/height on fields. ok is false when no URL is found.
func ResolveAsset(n *Node) (asset Asset, ok bool) {
	if n == nil {
		return Asset{}, false
	}
	fields := lookupMap(n.Data, "target", "fields")
	if fields == nil {
		return Asset{}, false
	}

	var url string
	var width, height any
	if file, _ := fields["file"].(map[string]any); file != nil && stringField(file, "url") != "" {
		url = stringField(file, "url")
		image := lookupMap(file, "details", "image")
		width, height = image["width"], image["height"]
	} else if stringField(fields, "url") != "" {
		url = stringField(fields, "url")
		width, height = fields["width"], fields["height"]
	} else {
		return Asset{}, false
	}

	if strings.HasPrefix(url, "//") {
		url = "https:" + url
	}
	alt := stringField(fields, "description")
	if alt == "" {
		alt = stringField(fields, "title")
	}
	return Asset{
		URL:    url,
		Width:  dimension(width),
		Height: dimension(height),
		Alt:    alt,
	}, true
}

func (s Styles) image(a Asset) string {
	var b strings.Builder
	b.WriteString(`<img src="`)
	b.WriteString(escapeAttr(a.URL))
	b.WriteString(`" alt="`)
	b.WriteString(escapeAttr(a.Alt))
	b.WriteString(`" width="`)
	b.WriteString(escapeAttr(a.Width))
	b.WriteString(`" height="`)
	b.WriteString(escapeAttr(a.Height))
	b.WriteString(`"`)
	if s.Image != "" {
		b.WriteString(` class="` + s.Image + `"`)
	}
	b.WriteString(` loading="lazy" />`)
	return b.String()
}

func lookupMap(m map[string]any, path ...string) map[string]any {
	for _, key := range path {
		next, ok := m[key].(map[string]any)
		if !ok {
			return nil
		}
		m = next
	}
	return m
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// dimension formats a width or height, defaulting to "auto".
func dimension(v any) string {
	switch x := v.(type) {
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case string:
		if x != "" {
			return x
		}
	}
	return "auto"
}

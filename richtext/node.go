package richtext

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
)

// Node is one element of a rich-text document tree.
// Content is nil when the source had no content array (or a non-array value);
// an explicit empty array decodes to a non-nil empty slice.
type Node struct {
	NodeType string         `json:"nodeType"`
	Data     map[string]any `json:"data,omitempty"`
	Content  []*Node        `json:"content,omitempty"`
	Value    string         `json:"value,omitempty"`
	Marks    []Mark         `json:"marks,omitempty"`
}

// Document is the root node of a rich-text tree.
type Document = Node

// Mark is an inline formatting attribute attached to a text leaf.
type Mark struct {
	Type string `json:"type"`
}

// ErrExpectedObject is returned when the decoded JSON root is not an object.
var ErrExpectedObject = errors.New("expected JSON object")

// Kind returns the canonical tag of the node.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindUnknown
	}
	return Canonical(n.NodeType)
}

// HasMark reports whether the node carries a mark of the given type.
func (n *Node) HasMark(markType string) bool {
	for _, m := range n.Marks {
		if m.Type == markType {
			return true
		}
	}
	return false
}

// URI returns the hyperlink target stored in data.uri.
func (n *Node) URI() string {
	s, _ := n.Data["uri"].(string)
	return s
}

// Decode parses a JSON rich-text document.
// Only invalid JSON or a non-object root is an error; unknown or malformed
// fields are tolerated.
func Decode(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("richtext decode: %w", err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("richtext decode: %w", ErrExpectedObject)
	}
	return FromMap(obj), nil
}

// DecodeString is a convenience wrapper for Decode.
func DecodeString(s string) (*Document, error) {
	return Decode(strings.NewReader(s))
}

// DecodeBytes is a convenience wrapper for Decode.
func DecodeBytes(b []byte) (*Document, error) {
	return Decode(bytes.NewReader(b))
}

// FromMap builds a node tree from an already decoded JSON object.
// Objects that contain themselves, directly or through descendants, are cut
// at the repeat, and nesting beyond the renderer's limit is dropped.
func FromMap(obj map[string]any) *Node {
	return fromMap(obj, 0, map[uintptr]bool{})
}

func fromMap(obj map[string]any, depth int, path map[uintptr]bool) *Node {
	n := &Node{}
	if t, ok := obj["nodeType"].(string); ok {
		n.NodeType = t
	}
	if d, ok := obj["data"].(map[string]any); ok {
		n.Data = d
	}
	if v, ok := obj["value"].(string); ok {
		n.Value = v
	}
	if arr, ok := obj["content"].([]any); ok {
		n.Content = make([]*Node, 0, len(arr))
		if depth < maxNesting {
			key := reflect.ValueOf(obj).Pointer()
			path[key] = true
			for _, item := range arr {
				child, ok := item.(map[string]any)
				if !ok || path[reflect.ValueOf(child).Pointer()] {
					continue
				}
				n.Content = append(n.Content, fromMap(child, depth+1, path))
			}
			delete(path, key)
		}
	}
	if arr, ok := obj["marks"].([]any); ok {
		for _, item := range arr {
			switch m := item.(type) {
			case string:
				n.Marks = append(n.Marks, Mark{Type: m})
			case map[string]any:
				if t, ok := m["type"].(string); ok {
					n.Marks = append(n.Marks, Mark{Type: t})
				}
			}
		}
	}
	return n
}

// UnmarshalJSON decodes a node with the same tolerance as Decode. A JSON
// null leaves the node unchanged.
func (n *Node) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return err
	}
	if obj == nil {
		return nil
	}
	*n = *FromMap(obj)
	return nil
}

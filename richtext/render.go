// Package richtext renders rich-text content documents into HTML.
//
// Rendering is total: Render accepts a document, a pre-rendered HTML string,
// raw JSON, or anything else, and always returns a string. Unrecognized nodes
// are skipped, faults inside a node only drop that node, and a document that
// yields nothing through the structured walk is retried through a generic
// transformer and finally reduced to its plain text.
package richtext

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"go.uber.org/zap"
)

const (
	defaultMaxDepth = 64
	// maxNesting bounds every recursive walk, including WithMaxDepth values.
	maxNesting = 10000
)

// Renderer converts rich-text documents to HTML.
// A Renderer is immutable and safe for concurrent use.
type Renderer struct {
	styles   Styles
	logger   *zap.Logger
	maxDepth int
	block    func(n *Node, budget int) (string, bool)
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used to report skipped nodes and recovered faults.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithStyles sets the class attributes emitted per tag.
func WithStyles(styles Styles) Option {
	return func(r *Renderer) {
		r.styles = styles
	}
}

// WithMaxDepth limits the nesting depth walked by the renderer. The structured
// walk drops deeper content and the generic transformer fails on it.
func WithMaxDepth(depth int) Option {
	return func(r *Renderer) {
		if depth > 0 {
			r.maxDepth = min(depth, maxNesting)
		}
	}
}

// New creates a Renderer with the default styles.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		styles:   DefaultStyles(),
		logger:   zap.NewNop(),
		maxDepth: defaultMaxDepth,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.block = r.styles.block
	return r
}

var defaultRenderer = New()

// Render renders v with the default renderer.
func Render(v any) string {
	return defaultRenderer.Render(v)
}

// Styles returns the styles the renderer emits.
func (r *Renderer) Styles() Styles {
	return r.styles
}

// Render converts v to HTML. It never panics and always returns a string.
func (r *Renderer) Render(v any) (out string) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("recovered while rendering content", zap.Any("panic", p))
			out = coerce(v)
		}
	}()
	return r.styles.NormalizeCodeBlocks(r.render(v))
}

func (r *Renderer) render(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case *Node:
		if x == nil {
			return ""
		}
		return r.renderDocument(x, x)
	case Node:
		return r.renderDocument(&x, x)
	case json.RawMessage:
		return r.renderJSON(x)
	case []byte:
		return r.renderJSON(x)
	case map[string]any:
		if _, ok := x["content"]; ok {
			return r.renderDocument(FromMap(x), x)
		}
	}
	return coerce(v)
}

func (r *Renderer) renderJSON(b []byte) string {
	if len(bytes.TrimSpace(b)) == 0 {
		return ""
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		r.logger.Debug("content is not JSON, treating it as text", zap.Error(err))
		return string(b)
	}
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case map[string]any:
		return r.render(x)
	}
	return string(bytes.TrimSpace(b))
}

// strategy is one step of the document rendering chain.
type strategy struct {
	name string
	run  func(*Document) (string, bool)
}

func (r *Renderer) strategies() []strategy {
	return []strategy{
		{name: "structured", run: r.structured},
		{name: "generic", run: r.generic},
		{name: "plaintext", run: r.plainText},
	}
}

// renderDocument runs the strategies in order and returns the first success.
// When all of them fail the input value is coerced to a string.
func (r *Renderer) renderDocument(doc *Document, orig any) string {
	for _, s := range r.strategies() {
		out, ok := s.run(doc)
		if ok {
			r.logger.Debug("rendered document", zap.String("strategy", s.name), zap.Int("bytes", len(out)))
			return out
		}
		r.logger.Debug("render strategy failed", zap.String("strategy", s.name))
	}
	return coerce(orig)
}

// coerce returns a printable representation of v.
func coerce(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case fmt.Stringer:
		return x.String()
	case error:
		return x.Error()
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%T", v)
		}
		return string(b)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

package richtext

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

var errDepthExceeded = errors.New("maximum document depth exceeded")

// generic renders the whole tree with a uniform kind-to-tag mapping. Text is
// escaped. It fails only on a fault or when the depth limit is hit.
func (r *Renderer) generic(doc *Document) (out string, ok bool) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Warn("generic transformer failed", zap.Any("panic", p))
			out, ok = "", false
		}
	}()
	var b strings.Builder
	if err := r.genericChildren(&b, doc.Content, 1); err != nil {
		r.logger.Warn("generic transformer failed", zap.Error(err))
		return "", false
	}
	return strings.TrimSpace(b.String()), true
}

func (r *Renderer) genericChildren(b *strings.Builder, nodes []*Node, depth int) error {
	if depth > r.maxDepth {
		return fmt.Errorf("%w: %d", errDepthExceeded, r.maxDepth)
	}
	for _, n := range nodes {
		if err := r.genericNode(b, n, depth); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) genericNode(b *strings.Builder, n *Node, depth int) error {
	if n == nil {
		return nil
	}
	s := r.styles
	kind := n.Kind()
	switch kind {
	case KindUnknown:
		return nil
	case KindText:
		leaf := *n
		leaf.Value = EscapeCode(n.Value)
		b.WriteString(s.applyMarks(&leaf))
		return nil
	case KindRule:
		b.WriteString(s.rule())
		return nil
	case KindCodeBlock:
		b.WriteString(s.codeFromText(n.Content))
		return nil
	case KindEmbeddedAsset:
		b.WriteString(s.asset(n))
		return nil
	}

	var inner strings.Builder
	if err := r.genericChildren(&inner, n.Content, depth+1); err != nil {
		return err
	}
	switch kind {
	case KindDocument:
		b.WriteString(inner.String())
	case KindHyperlink:
		b.WriteString(s.anchor(n.URI(), inner.String()))
	default:
		tag, class := s.element(kind)
		b.WriteString(openTag(tag, class) + inner.String() + "</" + tag + ">")
	}
	return nil
}

// element returns the tag and class of a container kind.
func (s Styles) element(kind Kind) (tag, class string) {
	switch kind {
	case KindParagraph:
		return "p", s.Paragraph
	case KindHeading1, KindHeading2, KindHeading3:
		return s.headingTag(kind)
	case KindUnorderedList:
		return "ul", s.listClass(kind, false)
	case KindOrderedList:
		return "ol", s.listClass(kind, false)
	case KindListItem:
		return "li", s.ListItem
	case KindQuote:
		return "blockquote", s.Quote
	case KindTable:
		return "table", s.Table
	case KindTableRow:
		return "tr", s.TableRow
	case KindTableHeaderCell:
		return "th", s.HeaderCell
	case KindTableCell:
		return "td", s.DataCell
	}
	return "p", s.Paragraph
}

// plainText extracts the text values of the tree depth first.
func (r *Renderer) plainText(doc *Document) (string, bool) {
	text := PlainText(doc)
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	return EscapeCode(text), true
}

// PlainText concatenates every text value below n in document order.
// Nodes nested deeper than the renderer's nesting limit are ignored.
func PlainText(n *Node) string {
	if n == nil {
		return ""
	}
	type frame struct {
		node  *Node
		depth int
	}
	var b strings.Builder
	stack := make([]frame, 0, len(n.Content))
	for i := len(n.Content) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: n.Content[i], depth: 1})
	}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.node == nil {
			continue
		}
		if cur.node.Kind() == KindText {
			b.WriteString(cur.node.Value)
		}
		if cur.depth >= maxNesting {
			continue
		}
		for i := len(cur.node.Content) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: cur.node.Content[i], depth: cur.depth + 1})
		}
	}
	return b.String()
}

package richtext

import (
	"strings"

	"go.uber.org/zap"
)

// structured walks the top-level nodes of doc and renders each recognised
// block. It reports failure when nothing but whitespace was produced.
func (r *Renderer) structured(doc *Document) (string, bool) {
	if doc.Content == nil {
		return "", false
	}
	var b strings.Builder
	for i, n := range doc.Content {
		b.WriteString(r.topLevel(i, n))
	}
	out := strings.TrimSpace(b.String())
	return out, out != ""
}

// topLevel renders a single top-level node; a fault inside it only drops
// that node.
func (r *Renderer) topLevel(index int, n *Node) (out string) {
	if n == nil {
		return ""
	}
	defer func() {
		if p := recover(); p != nil {
			r.logger.Warn("recovered while rendering node",
				zap.Int("index", index),
				zap.String("nodeType", n.NodeType),
				zap.Any("panic", p),
			)
			out = ""
		}
	}()
	if html, ok := r.block(n, r.maxDepth); ok {
		return html
	}
	r.logger.Debug("skipping unrecognized node", zap.Int("index", index), zap.String("nodeType", n.NodeType))
	return ""
}

// block dispatches a block-level node. ok is false when no handler matched.
// Content nested deeper than budget levels is dropped.
func (s Styles) block(n *Node, budget int) (html string, ok bool) {
	if n == nil {
		return "", false
	}
	kind := n.Kind()
	switch {
	case kind == KindParagraph && n.Content != nil:
		return s.paragraph(n, budget), true
	case kind.isHeading() && n.Content != nil:
		return s.heading(n, kind, budget), true
	case kind.IsList() && n.Content != nil:
		return s.list(n, kind, false, budget), true
	case looksLikeList(n):
		return s.list(n, KindUnorderedList, false, budget), true
	case kind == KindQuote && n.Content != nil:
		return s.quote(n, budget), true
	case kind == KindRule:
		return s.rule(), true
	case kind == KindTable:
		return s.table(n, budget), true
	case kind == KindCodeBlock:
		return s.codeFromText(n.Content), true
	case kind == KindEmbeddedAsset:
		return s.asset(n), true
	}
	return "", false
}

func (s Styles) paragraph(n *Node, budget int) string {
	if isCodeParagraph(n) {
		return s.codeFromText(n.Content)
	}
	text := strings.TrimSpace(s.inline(n.Content, budget-1))
	if text == "" {
		return ""
	}
	return openTag("p", s.Paragraph) + text + "</p>"
}

// isCodeParagraph reports whether every child is a code-marked text leaf and
// at least one of them spans several lines.
func isCodeParagraph(n *Node) bool {
	multiline := false
	for _, c := range n.Content {
		if c.Kind() != KindText || !c.HasMark("code") {
			return false
		}
		if strings.Contains(c.Value, "\n") {
			multiline = true
		}
	}
	return multiline
}

func (s Styles) heading(n *Node, kind Kind, budget int) string {
	text := strings.TrimSpace(s.inline(n.Content, budget-1))
	if text == "" {
		return ""
	}
	tag, class := s.headingTag(kind)
	return openTag(tag, class) + text + "</" + tag + ">"
}

func (s Styles) quote(n *Node, budget int) string {
	text := strings.TrimSpace(s.inlineUnwrapped(n.Content, budget-1))
	if text == "" {
		return ""
	}
	return openTag("blockquote", s.Quote) + text + "</blockquote>"
}

func (s Styles) rule() string {
	if s.Rule == "" {
		return "<hr />"
	}
	return `<hr class="` + s.Rule + `" />`
}

func (s Styles) table(n *Node, budget int) string {
	if n.Content == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(openTag("table", s.Table))
	for _, row := range n.Content {
		if row.Kind() != KindTableRow {
			continue
		}
		b.WriteString(openTag("tr", s.TableRow))
		for _, cell := range row.Content {
			switch cell.Kind() {
			case KindTableHeaderCell:
				b.WriteString(openTag("th", s.HeaderCell) + s.inlineUnwrapped(cell.Content, budget-3) + "</th>")
			case KindTableCell:
				b.WriteString(openTag("td", s.DataCell) + s.inlineUnwrapped(cell.Content, budget-3) + "</td>")
			}
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")
	return b.String()
}

// codeFromText joins the literal text of the children into an escaped code
// block. Whitespace-only code renders nothing.
func (s Styles) codeFromText(children []*Node) string {
	var code strings.Builder
	for _, c := range children {
		if c.Kind() == KindText {
			code.WriteString(c.Value)
		}
	}
	if strings.TrimSpace(code.String()) == "" {
		return ""
	}
	return s.codeBlock(EscapeCode(code.String()))
}

func (s Styles) asset(n *Node) string {
	a, ok := ResolveAsset(n)
	if !ok {
		return ""
	}
	return s.image(a)
}

package richtext

import "strings"

// applyMarks wraps the text of a leaf in its marks. Marks are applied in
// reverse, so the last listed mark ends up innermost.
func (s Styles) applyMarks(n *Node) string {
	if n.Value == "" {
		return ""
	}
	text := n.Value
	for i := len(n.Marks) - 1; i >= 0; i-- {
		switch n.Marks[i].Type {
		case "bold":
			text = "<strong>" + text + "</strong>"
		case "italic":
			text = "<em>" + text + "</em>"
		case "underline":
			text = "<u>" + text + "</u>"
		case "code":
			text = openTag("code", s.InlineCode) + text + "</code>"
		}
	}
	return text
}

// link renders a hyperlink node with its children inline.
func (s Styles) link(n *Node, budget int) string {
	return s.anchor(n.URI(), s.inline(n.Content, budget-1))
}

// anchor wraps inner in a link that opens in a new browsing context.
func (s Styles) anchor(uri, inner string) string {
	var b strings.Builder
	b.WriteString(`<a href="`)
	b.WriteString(escapeAttr(uri))
	b.WriteString(`" target="_blank" rel="noopener noreferrer"`)
	if s.Link != "" {
		b.WriteString(` class="` + s.Link + `"`)
	}
	b.WriteString(">")
	b.WriteString(inner)
	b.WriteString("</a>")
	return b.String()
}

// inline renders text leaves and hyperlinks; every other node type is ignored.
// budget is the number of levels the walk may still descend; deeper children
// are dropped.
func (s Styles) inline(children []*Node, budget int) string {
	if budget <= 0 {
		return ""
	}
	var b strings.Builder
	for _, c := range children {
		switch c.Kind() {
		case KindText:
			b.WriteString(s.applyMarks(c))
		case KindHyperlink:
			b.WriteString(s.link(c, budget))
		}
	}
	return b.String()
}

// inlineUnwrapped renders inline children, descending one level into
// paragraph wrappers.
func (s Styles) inlineUnwrapped(children []*Node, budget int) string {
	var b strings.Builder
	for _, c := range children {
		if c.Kind() == KindParagraph {
			b.WriteString(s.inline(c.Content, budget-1))
			continue
		}
		b.WriteString(s.inline([]*Node{c}, budget))
	}
	return b.String()
}

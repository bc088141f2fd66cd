package richtext

import "strings"

// list renders an ordered or unordered list. Nested lists carry the indent
// class; the outermost list does not. Items without content are dropped and a
// list without items renders nothing.
func (s Styles) list(n *Node, kind Kind, nested bool, budget int) string {
	if budget <= 0 {
		return ""
	}
	var items strings.Builder
	for _, item := range n.Content {
		if !isListItem(item) {
			continue
		}
		content := strings.TrimSpace(s.listItem(item, budget-1))
		if content == "" {
			continue
		}
		items.WriteString(openTag("li", s.ListItem) + content + "</li>")
	}
	if items.Len() == 0 {
		return ""
	}
	tag := "ul"
	if kind == KindOrderedList {
		tag = "ol"
	}
	return openTag(tag, s.listClass(kind, nested)) + items.String() + "</" + tag + ">"
}

// listItem renders paragraph text, nested lists, and inline leaves of an item.
func (s Styles) listItem(item *Node, budget int) string {
	if budget <= 0 {
		return ""
	}
	var b strings.Builder
	for _, c := range item.Content {
		switch kind := c.Kind(); {
		case kind == KindParagraph && c.Content != nil:
			b.WriteString(strings.TrimSpace(s.inline(c.Content, budget-2)))
		case kind.IsList():
			b.WriteString(s.list(c, kind, true, budget-1))
		case kind == KindText:
			b.WriteString(s.applyMarks(c))
		case kind == KindHyperlink:
			b.WriteString(s.link(c, budget-1))
		}
	}
	return b.String()
}

func isListItem(n *Node) bool {
	if n == nil || n.Content == nil {
		return false
	}
	return n.Kind() == KindListItem || containsParagraph(n)
}

// looksLikeList reports whether every child of n is shaped like a list item.
// Such nodes are rendered as unordered lists even without a list tag.
func looksLikeList(n *Node) bool {
	if len(n.Content) == 0 {
		return false
	}
	for _, c := range n.Content {
		if c.Kind() != KindListItem && !containsParagraph(c) {
			return false
		}
	}
	return true
}

func containsParagraph(n *Node) bool {
	if n == nil {
		return false
	}
	for _, c := range n.Content {
		if c.Kind() == KindParagraph {
			return true
		}
	}
	return false
}

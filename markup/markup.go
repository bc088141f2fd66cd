// Package markup derives secondary views from rendered HTML: markdown, a
// plain-text excerpt and the heading outline.
package markup

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/foomo/contentserver-richtext/service/vo"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ExcerptLength is the maximum number of runes in an excerpt.
const ExcerptLength = 160

type Summary struct {
	Excerpt string
	Outline []vo.Heading
}

// ToMarkdown converts an HTML fragment to markdown.
func ToMarkdown(fragment vo.HTML) (vo.Markdown, error) {
	if strings.TrimSpace(string(fragment)) == "" {
		return "", nil
	}
	doc, err := parse(fragment)
	if err != nil {
		return "", err
	}
	markdownBytes, err := htmltomarkdown.ConvertNode(doc)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}
	return vo.Markdown(strings.TrimSpace(string(markdownBytes))), nil
}

// Summarize extracts the excerpt and the h1-h3 outline of an HTML fragment.
func Summarize(fragment vo.HTML) (Summary, error) {
	var summary Summary
	doc, err := parse(fragment)
	if err != nil {
		return summary, err
	}

	if p := findFirst(doc, func(n *html.Node) bool {
		return n.DataAtom == atom.P && textContent(n) != ""
	}); p != nil {
		summary.Excerpt = truncate(textContent(p), ExcerptLength)
	}

	for _, h := range findAll(doc, func(n *html.Node) bool { return headingLevel(n) > 0 }) {
		text := textContent(h)
		if text == "" {
			continue
		}
		summary.Outline = append(summary.Outline, vo.Heading{
			Level: headingLevel(h),
			Text:  text,
			ID:    slugify(text),
		})
	}
	return summary, nil
}

func parse(fragment vo.HTML) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(string(fragment)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// truncate cuts s to at most max runes on a word boundary, marking the cut
// with an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := string(runes[:max-1])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:.") + "…"
}

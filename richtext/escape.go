package richtext

import (
	"regexp"
	"strings"
)

// The entity forms are fixed so that escaped code survives a decode/encode
// round trip byte for byte.
var (
	codeEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	codeUnescaper = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	)
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
)

var codeBlockPattern = regexp.MustCompile(`(?s)<pre[^>]*><code[^>]*>(.*?)</code></pre>`)

// EscapeCode escapes the five HTML-significant characters.
func EscapeCode(s string) string {
	return codeEscaper.Replace(s)
}

// UnescapeCode reverses EscapeCode in a single pass.
func UnescapeCode(s string) string {
	return codeUnescaper.Replace(s)
}

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

func openTag(tag, class string) string {
	if class == "" {
		return "<" + tag + ">"
	}
	return "<" + tag + ` class="` + class + `">`
}

// codeBlock wraps already escaped code in the preformatted block construct.
func (s Styles) codeBlock(escaped string) string {
	return openTag("pre", s.Pre) + openTag("code", s.PreCode) + escaped + "</code></pre>"
}

// NormalizeCodeBlocks rewrites every pre/code fragment in html into the
// canonical code block wrapper with its content re-escaped.
func (s Styles) NormalizeCodeBlocks(html string) string {
	if !strings.Contains(html, "<pre") {
		return html
	}
	return codeBlockPattern.ReplaceAllStringFunc(html, func(match string) string {
		sub := codeBlockPattern.FindStringSubmatch(match)
		return s.codeBlock(EscapeCode(UnescapeCode(sub[1])))
	})
}

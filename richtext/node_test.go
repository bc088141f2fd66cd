package richtext

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	d, err := DecodeString(`{
		"nodeType": "document",
		"content": [
			{"nodeType": "paragraph", "content": [
				{"nodeType": "text", "value": "hi", "marks": [{"type": "bold"}, "italic", 3]}
			]},
			"stray string",
			{"nodeType": "hr"},
			{"nodeType": "hyperlink", "data": {"uri": "https://example.com"}, "content": "oops"}
		]
	}`)
	require.NoError(t, err)
	require.Len(t, d.Content, 3)
	assert.Equal(t, KindDocument, d.Kind())

	leaf := d.Content[0].Content[0]
	assert.Equal(t, "hi", leaf.Value)
	assert.Equal(t, []Mark{{Type: "bold"}, {Type: "italic"}}, leaf.Marks)
	assert.True(t, leaf.HasMark("italic"))
	assert.False(t, leaf.HasMark("code"))

	assert.Nil(t, d.Content[1].Content)
	assert.Nil(t, d.Content[2].Content)
	assert.Equal(t, "https://example.com", d.Content[2].URI())
}

func TestDecodeErrors(t *testing.T) {
	_, err := DecodeString(`{"nodeType":`)
	require.Error(t, err)

	_, err = DecodeString(`[1, 2]`)
	require.ErrorIs(t, err, ErrExpectedObject)

	_, err = DecodeBytes([]byte(`"text"`))
	require.ErrorIs(t, err, ErrExpectedObject)
}

func TestNodeUnmarshalNull(t *testing.T) {
	var holder struct {
		Body Node `json:"body"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"body":null}`), &holder))
	assert.Equal(t, Node{}, holder.Body)

	require.NoError(t, json.Unmarshal([]byte(`{"body":{"nodeType":"document","content":[]}}`), &holder))
	assert.Equal(t, KindDocument, holder.Body.Kind())

	n := Node{NodeType: "paragraph"}
	require.NoError(t, n.UnmarshalJSON([]byte("null")))
	assert.Equal(t, "paragraph", n.NodeType)
}

func TestFromMapCutsCycles(t *testing.T) {
	a := map[string]any{"nodeType": "unordered-list"}
	b := map[string]any{"nodeType": "list-item"}
	a["content"] = []any{b}
	b["content"] = []any{a, map[string]any{"nodeType": "text", "value": "leaf"}}

	n := FromMap(a)
	require.Len(t, n.Content, 1)
	item := n.Content[0]
	require.Len(t, item.Content, 1)
	assert.Equal(t, "leaf", item.Content[0].Value)
}

func TestFromMapBoundsNesting(t *testing.T) {
	root := map[string]any{"nodeType": "document"}
	cur := root
	for i := 0; i < 3*maxNesting; i++ {
		next := map[string]any{"nodeType": "blockquote"}
		cur["content"] = []any{next}
		cur = next
	}

	var n *Node
	require.NotPanics(t, func() { n = FromMap(root) })
	levels := 0
	for len(n.Content) > 0 {
		n = n.Content[0]
		levels++
	}
	assert.Equal(t, maxNesting, levels)
}

func TestDecodeEmptyContentIsNotNil(t *testing.T) {
	d, err := DecodeString(`{"nodeType":"document","content":[]}`)
	require.NoError(t, err)
	assert.NotNil(t, d.Content)
	assert.Empty(t, d.Content)
}

func TestCanonical(t *testing.T) {
	tests := map[string]Kind{
		"document":             KindDocument,
		"paragraph":            KindParagraph,
		"p":                    KindParagraph,
		"heading-1":            KindHeading1,
		"h1":                   KindHeading1,
		"heading-2":            KindHeading2,
		"h3":                   KindHeading3,
		"heading-4":            KindUnknown,
		"unordered-list":       KindUnorderedList,
		"bulleted-list":        KindUnorderedList,
		"list":                 KindUnorderedList,
		"numbered-list":        KindOrderedList,
		"li":                   KindListItem,
		"item":                 KindListItem,
		"blockquote":           KindQuote,
		"horizontal-rule":      KindRule,
		"table-header-cell":    KindTableHeaderCell,
		"table-cell":           KindTableCell,
		"code":                 KindCodeBlock,
		"embedded-asset":       KindEmbeddedAsset,
		"embedded-asset-block": KindEmbeddedAsset,
		"link":                 KindHyperlink,
		"text":                 KindText,
		"":                     KindUnknown,
		"Paragraph":            KindUnknown,
	}
	for nodeType, want := range tests {
		assert.Equal(t, want, Canonical(nodeType), nodeType)
	}
	assert.True(t, KindOrderedList.IsList())
	assert.False(t, KindListItem.IsList())
	assert.Equal(t, KindUnknown, (*Node)(nil).Kind())
}

func TestPlainText(t *testing.T) {
	d := doc(
		node("heading-1", text("Title ")),
		node("ul", node("li", node("paragraph", text("one ")), node("ul", node("li", text("two "))))),
		nil,
		node("paragraph", text("three")),
	)
	assert.Equal(t, "Title one two three", PlainText(d))
	assert.Equal(t, "", PlainText(nil))
}

func TestEscapeCode(t *testing.T) {
	in := `a & b < c > d "e" 'f'`
	escaped := EscapeCode(in)
	assert.Equal(t, "a &amp; b &lt; c &gt; d &quot;e&quot; &#39;f&#39;", escaped)
	assert.Equal(t, in, UnescapeCode(escaped))
	assert.Equal(t, "&lt;", UnescapeCode("&amp;lt;"))
}

func TestNormalizeCodeBlocks(t *testing.T) {
	s := DefaultStyles()
	canonical := s.codeBlock(EscapeCode("x := a < b && c"))

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "no code blocks",
			in:   "<p>x &amp; y</p>",
			want: "<p>x &amp; y</p>",
		},
		{
			name: "canonical block unchanged",
			in:   canonical,
			want: canonical,
		},
		{
			name: "foreign wrapper rewritten",
			in:   `<p>a</p><pre data-lang="go"><code class="go">x := a &lt; b &amp;&amp; c</code></pre>`,
			want: "<p>a</p>" + canonical,
		},
		{
			name: "raw characters escaped",
			in:   "<pre><code>x := a < b && c</code></pre>",
			want: canonical,
		},
		{
			name: "entity text is preserved",
			in:   "<pre><code>&amp;lt;</code></pre>",
			want: s.codeBlock("&amp;lt;"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.NormalizeCodeBlocks(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, s.NormalizeCodeBlocks(got))
		})
	}
}

func TestNormalizeMultilineCodeBlocks(t *testing.T) {
	s := PlainStyles()
	in := "<pre><code>line 1\nline 2</code></pre><pre><code>'q'</code></pre>"
	got := s.NormalizeCodeBlocks(in)
	assert.Equal(t, "<pre><code>line 1\nline 2</code></pre><pre><code>&#39;q&#39;</code></pre>", got)
	assert.Equal(t, 2, strings.Count(got, "<pre>"))
}

func TestRenderWithLogger(t *testing.T) {
	r := New(WithLogger(nil), WithMaxDepth(0))
	assert.Equal(t, defaultMaxDepth, r.maxDepth)
	assert.NotNil(t, r.logger)
	assert.Equal(t, DefaultStyles(), r.Styles())
	assert.Equal(t, Render(doc(node("hr"))), r.Render(doc(node("hr"))))
}

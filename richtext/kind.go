package richtext

// Kind is the canonical node tag after alias resolution.
type Kind int

const (
	KindUnknown Kind = iota
	KindDocument
	KindParagraph
	KindHeading1
	KindHeading2
	KindHeading3
	KindUnorderedList
	KindOrderedList
	KindListItem
	KindQuote
	KindRule
	KindTable
	KindTableRow
	KindTableHeaderCell
	KindTableCell
	KindCodeBlock
	KindEmbeddedAsset
	KindHyperlink
	KindText
)

// aliases maps every node-type string seen in the wild to its canonical kind.
// The CMS enum values are listed first for each kind.
var aliases = map[string]Kind{
	"document": KindDocument,

	"paragraph": KindParagraph,
	"p":         KindParagraph,

	"heading-1": KindHeading1,
	"h1":        KindHeading1,
	"heading-2": KindHeading2,
	"h2":        KindHeading2,
	"heading-3": KindHeading3,
	"h3":        KindHeading3,

	"unordered-list": KindUnorderedList,
	"ul":             KindUnorderedList,
	"list":           KindUnorderedList,
	"bulleted-list":  KindUnorderedList,

	"ordered-list":  KindOrderedList,
	"ol":            KindOrderedList,
	"numbered-list": KindOrderedList,

	"list-item": KindListItem,
	"li":        KindListItem,
	"item":      KindListItem,

	"blockquote": KindQuote,
	"quote":      KindQuote,

	"hr":              KindRule,
	"horizontal-rule": KindRule,

	"table":             KindTable,
	"table-row":         KindTableRow,
	"table-header-cell": KindTableHeaderCell,
	"table-cell":        KindTableCell,

	"code":       KindCodeBlock,
	"code-block": KindCodeBlock,

	"embedded-asset-block": KindEmbeddedAsset,
	"embedded-asset":       KindEmbeddedAsset,

	"hyperlink": KindHyperlink,
	"link":      KindHyperlink,

	"text": KindText,
}

// Canonical resolves a node-type string to its canonical kind.
func Canonical(nodeType string) Kind {
	return aliases[nodeType]
}

var kindNames = map[Kind]string{
	KindUnknown:         "unknown",
	KindDocument:        "document",
	KindParagraph:       "paragraph",
	KindHeading1:        "heading-1",
	KindHeading2:        "heading-2",
	KindHeading3:        "heading-3",
	KindUnorderedList:   "unordered-list",
	KindOrderedList:     "ordered-list",
	KindListItem:        "list-item",
	KindQuote:           "blockquote",
	KindRule:            "hr",
	KindTable:           "table",
	KindTableRow:        "table-row",
	KindTableHeaderCell: "table-header-cell",
	KindTableCell:       "table-cell",
	KindCodeBlock:       "code-block",
	KindEmbeddedAsset:   "embedded-asset-block",
	KindHyperlink:       "hyperlink",
	KindText:            "text",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// IsList reports whether k is an ordered or unordered list.
func (k Kind) IsList() bool {
	return k == KindUnorderedList || k == KindOrderedList
}

func (k Kind) isHeading() bool {
	return k == KindHeading1 || k == KindHeading2 || k == KindHeading3
}

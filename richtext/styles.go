package richtext

// Styles holds the class attribute emitted for each tag.
// An empty value emits the tag without a class attribute.
type Styles struct {
	Paragraph  string
	Heading1   string
	Heading2   string
	Heading3   string
	List       string // appended to the list-type class for both ul and ol
	Unordered  string
	Ordered    string
	ListIndent string // added to nested lists only
	ListItem   string
	Quote      string
	Rule       string
	Table      string
	TableRow   string
	HeaderCell string
	DataCell   string
	Pre        string
	PreCode    string
	InlineCode string
	Link       string
	Image      string
}

// DefaultStyles returns the utility classes used by the site templates.
func DefaultStyles() Styles {
	return Styles{
		Paragraph:  "mb-4 leading-relaxed",
		Heading1:   "text-3xl font-bold text-gray-900 mt-8 mb-4",
		Heading2:   "text-2xl font-bold text-gray-900 mt-6 mb-3",
		Heading3:   "text-xl font-semibold text-gray-900 mt-4 mb-2",
		List:       "list-inside mb-4 space-y-1",
		Unordered:  "list-disc",
		Ordered:    "list-decimal",
		ListIndent: "ml-4",
		ListItem:   "mb-1",
		Quote:      "border-l-4 border-primary bg-gray-50 pl-6 py-4 mb-4 italic text-gray-700",
		Rule:       "border-gray-300 my-8",
		Table:      "min-w-full border border-gray-300 rounded-lg my-6",
		TableRow:   "border-b border-gray-300",
		HeaderCell: "px-4 py-3 bg-gray-50 text-left text-sm font-semibold text-gray-900 border-r border-gray-300",
		DataCell:   "px-4 py-3 text-sm text-gray-700 border-r border-gray-300",
		Pre:        "bg-gray-100 border border-gray-200 rounded-lg p-4 mb-4 overflow-x-auto",
		PreCode:    "text-sm font-mono text-gray-800 whitespace-pre",
		InlineCode: "text-gray-800 bg-gray-100 px-1 py-0.5 rounded text-sm font-mono",
		Link:       "text-blue-600 hover:text-blue-800 underline",
		Image:      "max-w-full h-auto rounded-lg shadow-sm my-6",
	}
}

// PlainStyles returns styles that emit no class attributes, for callers that
// style the container instead.
func PlainStyles() Styles {
	return Styles{}
}

func (s Styles) listClass(kind Kind, nested bool) string {
	typ := s.Unordered
	if kind == KindOrderedList {
		typ = s.Ordered
	}
	cls := joinClasses(typ, s.List)
	if nested {
		cls = joinClasses(cls, s.ListIndent)
	}
	return cls
}

func (s Styles) headingTag(kind Kind) (tag, class string) {
	switch kind {
	case KindHeading1:
		return "h1", s.Heading1
	case KindHeading2:
		return "h2", s.Heading2
	default:
		return "h3", s.Heading3
	}
}

func joinClasses(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " " + b
}

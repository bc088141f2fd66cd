package vo

import "time"

// HTML is rendered, trusted markup.
type HTML string

type Markdown string

type Heading struct {
	Level int    `json:"level"` // 1 to 3
	Text  string `json:"text"`
	ID    string `json:"id,omitempty"` // Anchor slug derived from the text
}

type PageSummary struct {
	Section     string    `json:"section"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"` // Meta description or excerpt
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

type Page struct {
	PageSummary `json:"summary"`
	HTML        HTML      `json:"html"`
	Markdown    Markdown  `json:"markdown,omitempty"` // Full content in markdown
	Excerpt     string    `json:"excerpt,omitempty"`
	Outline     []Heading `json:"outline,omitempty"`
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/foomo/contentserver-richtext/markup"
	"github.com/foomo/contentserver-richtext/richtext"
	"github.com/foomo/contentserver-richtext/service/vo"
	"go.uber.org/zap"
)

var (
	ErrNotFound       = errors.New("entry not found")
	ErrUnknownSection = errors.New("unknown section")
)

// Entry is a page entry as delivered by a content source. Content is the raw
// rich-text value and is handed to the renderer untouched.
type Entry struct {
	ID              string
	Title           string
	Slug            string
	Content         any
	MetaDescription string
	UpdatedAt       time.Time
}

// Source fetches entries of a content type.
type Source interface {
	Entries(ctx context.Context, contentType string) ([]Entry, error)
	// EntryBySlug returns ErrNotFound when no entry has the slug.
	EntryBySlug(ctx context.Context, contentType, slug string) (*Entry, error)
}

type Service interface {
	GetPage(ctx context.Context, section, slug string) (*vo.Page, error)
	ListPages(ctx context.Context, section string) ([]vo.PageSummary, error)
	Sections() []string
}

type SiteSettings struct {
	BaseURL  string
	Sections map[string]string // section name to content type
}

// DefaultSections maps the site sections to their content types.
func DefaultSections() map[string]string {
	return map[string]string{
		"docs": "documentationPage",
		"help": "helpPage",
		"blog": "blogPage",
	}
}

type service struct {
	siteSettings SiteSettings
	source       Source
	renderer     *richtext.Renderer
	logger       *zap.Logger
}

func NewService(
	siteSettings SiteSettings,
	source Source,
	renderer *richtext.Renderer,
	logger *zap.Logger,
) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if renderer == nil {
		renderer = richtext.New(richtext.WithLogger(logger))
	}
	if len(siteSettings.Sections) == 0 {
		siteSettings.Sections = DefaultSections()
	}
	siteSettings.BaseURL = strings.TrimRight(siteSettings.BaseURL, "/")

	return &service{
		siteSettings: siteSettings,
		source:       source,
		renderer:     renderer,
		logger:       logger,
	}
}

func (s *service) Sections() []string {
	sections := make([]string, 0, len(s.siteSettings.Sections))
	for section := range s.siteSettings.Sections {
		sections = append(sections, section)
	}
	sort.Strings(sections)
	return sections
}

func (s *service) contentType(section string) (string, error) {
	contentType, ok := s.siteSettings.Sections[section]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	return contentType, nil
}

func (s *service) GetPage(ctx context.Context, section, slug string) (*vo.Page, error) {
	contentType, err := s.contentType(section)
	if err != nil {
		return nil, err
	}
	entry, err := s.source.EntryBySlug(ctx, contentType, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get page %s/%s: %w", section, slug, err)
	}
	if entry == nil {
		return nil, fmt.Errorf("failed to get page %s/%s: %w", section, slug, ErrNotFound)
	}

	page := &vo.Page{
		HTML: vo.HTML(s.renderer.Render(entry.Content)),
	}
	summary, err := markup.Summarize(page.HTML)
	if err != nil {
		s.logger.Warn("failed to summarize page", zap.String("section", section), zap.String("slug", slug), zap.Error(err))
	}
	page.Excerpt = summary.Excerpt
	page.Outline = summary.Outline
	page.PageSummary = s.summary(section, entry, summary.Excerpt)

	page.Markdown, err = markup.ToMarkdown(page.HTML)
	if err != nil {
		s.logger.Warn("failed to convert page to markdown", zap.String("section", section), zap.String("slug", slug), zap.Error(err))
	}
	return page, nil
}

func (s *service) ListPages(ctx context.Context, section string) ([]vo.PageSummary, error) {
	contentType, err := s.contentType(section)
	if err != nil {
		return nil, err
	}
	entries, err := s.source.Entries(ctx, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages of %s: %w", section, err)
	}

	summaries := make([]vo.PageSummary, 0, len(entries))
	for i := range entries {
		entry := &entries[i]
		excerpt := ""
		if entry.MetaDescription == "" {
			summary, err := markup.Summarize(vo.HTML(s.renderer.Render(entry.Content)))
			if err != nil {
				s.logger.Warn("failed to summarize page", zap.String("section", section), zap.String("slug", entry.Slug), zap.Error(err))
			}
			excerpt = summary.Excerpt
		}
		summaries = append(summaries, s.summary(section, entry, excerpt))
	}
	return summaries, nil
}

func (s *service) summary(section string, entry *Entry, excerpt string) vo.PageSummary {
	description := entry.MetaDescription
	if description == "" {
		description = excerpt
	}
	return vo.PageSummary{
		Section:     section,
		Slug:        entry.Slug,
		Title:       entry.Title,
		URL:         s.siteSettings.BaseURL + "/" + section + "/" + entry.Slug,
		Description: description,
		UpdatedAt:   entry.UpdatedAt,
	}
}

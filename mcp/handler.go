package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/foomo/contentserver-richtext/markup"
	"github.com/foomo/contentserver-richtext/richtext"
	"github.com/foomo/contentserver-richtext/service"
	"github.com/foomo/contentserver-richtext/service/vo"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const Version = "0.1.0"

const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

type RenderRichTextRequest struct {
	Document string `json:"document"` // Rich-text JSON document or pre-rendered HTML
	Format   string `json:"format"`   // html (default) or markdown
}

type RenderRichTextResponse struct {
	HTML     vo.HTML     `json:"html"`
	Markdown vo.Markdown `json:"markdown,omitempty"`
}

type GetPageRequest struct {
	Section string `json:"section"` // Site section, e.g. docs
	Slug    string `json:"slug"`    // Page slug within the section
}

type GetPageResponse struct {
	Page *vo.Page `json:"page"`
}

type ListPagesRequest struct {
	Section string `json:"section"`
}

type ListPagesResponse struct {
	Section string           `json:"section"`
	Pages   []vo.PageSummary `json:"pages"`
}

// NewServer creates a new MCP server with the renderRichText tool and, when a
// service is given, the getPage and listPages tools.
func NewServer(serviceInstance service.Service, renderer *richtext.Renderer) *server.MCPServer {
	if renderer == nil {
		renderer = richtext.New()
	}
	s := server.NewMCPServer(
		"Rich Text Content MCP",
		Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	renderTool := mcp.NewTool("renderRichText",
		mcp.WithDescription("Render a rich-text JSON document to sanitized HTML or markdown"),
		mcp.WithString("document",
			mcp.Required(),
			mcp.Description("The rich-text document as JSON, or an already rendered HTML string"),
		),
		mcp.WithString("format",
			mcp.Description("Output format"),
			mcp.Enum(FormatHTML, FormatMarkdown),
		),
	)
	s.AddTool(renderTool, mcp.NewTypedToolHandler(getRenderHandler(renderer)))

	if serviceInstance != nil {
		sections := strings.Join(serviceInstance.Sections(), ", ")

		getPageTool := mcp.NewTool("getPage",
			mcp.WithDescription("Get a rendered page with html, markdown, excerpt and outline"),
			mcp.WithString("section",
				mcp.Required(),
				mcp.Description("The site section, one of: "+sections),
			),
			mcp.WithString("slug",
				mcp.Required(),
				mcp.Description("The page slug"),
			),
		)
		s.AddTool(getPageTool, mcp.NewTypedToolHandler(getPageHandler(serviceInstance)))

		listPagesTool := mcp.NewTool("listPages",
			mcp.WithDescription("List the pages of a site section"),
			mcp.WithString("section",
				mcp.Required(),
				mcp.Description("The site section, one of: "+sections),
			),
		)
		s.AddTool(listPagesTool, mcp.NewTypedToolHandler(listPagesHandler(serviceInstance)))
	}

	return s
}

func getRenderHandler(renderer *richtext.Renderer) func(ctx context.Context, request mcp.CallToolRequest, args RenderRichTextRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args RenderRichTextRequest) (*mcp.CallToolResult, error) {
		if strings.TrimSpace(args.Document) == "" {
			return mcp.NewToolResultError("document is required"), nil
		}

		response := RenderRichTextResponse{
			HTML: vo.HTML(renderer.Render([]byte(args.Document))),
		}
		switch args.Format {
		case "", FormatHTML:
		case FormatMarkdown:
			markdown, err := markup.ToMarkdown(response.HTML)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to convert to markdown: %v", err)), nil
			}
			response.Markdown = markdown
		default:
			return mcp.NewToolResultError(fmt.Sprintf("unsupported format %q", args.Format)), nil
		}
		return jsonResult(response)
	}
}

func getPageHandler(serviceInstance service.Service) func(ctx context.Context, request mcp.CallToolRequest, args GetPageRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args GetPageRequest) (*mcp.CallToolResult, error) {
		if args.Section == "" {
			return mcp.NewToolResultError("section is required"), nil
		}
		if args.Slug == "" {
			return mcp.NewToolResultError("slug is required"), nil
		}

		page, err := serviceInstance.GetPage(ctx, args.Section, args.Slug)
		if err != nil {
			return serviceError("failed to get page", err), nil
		}
		return jsonResult(GetPageResponse{Page: page})
	}
}

func listPagesHandler(serviceInstance service.Service) func(ctx context.Context, request mcp.CallToolRequest, args ListPagesRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args ListPagesRequest) (*mcp.CallToolResult, error) {
		if args.Section == "" {
			return mcp.NewToolResultError("section is required"), nil
		}

		pages, err := serviceInstance.ListPages(ctx, args.Section)
		if err != nil {
			return serviceError("failed to list pages", err), nil
		}
		return jsonResult(ListPagesResponse{Section: args.Section, Pages: pages})
	}
}

func serviceError(msg string, err error) *mcp.CallToolResult {
	if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrUnknownSection) {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", msg, err))
}

func jsonResult(response any) (*mcp.CallToolResult, error) {
	responseBytes, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseBytes)), nil
}

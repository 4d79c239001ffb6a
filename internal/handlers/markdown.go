package handlers

import (
	"bytes"
	"context"
	"fmt"

	"github.com/quantmind-br/siteassets-go/internal/utils"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// MarkdownHandler renders a markdown text asset to an HTML fragment
type MarkdownHandler struct {
	deps Deps
	md   goldmark.Markdown
}

// NewMarkdownHandler creates a markdown handler with GFM enabled
func NewMarkdownHandler(deps Deps) *MarkdownHandler {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	return &MarkdownHandler{deps: deps, md: md}
}

// Render converts markdown source to HTML
func (h *MarkdownHandler) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := h.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// Handle renders content and writes <path>.html
func (h *MarkdownHandler) Handle(ctx context.Context, content any, path string) error {
	if content == nil {
		h.deps.logger().Debug().Str("path", path).Msg("No markdown to render")
		return nil
	}

	source, ok := content.(string)
	if !ok {
		return unsupported("markdown", content)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	out, err := h.Render(source)
	if err != nil {
		return err
	}
	return h.deps.Writer.WriteFile(ctx, utils.AssetOutputPath("", path, ".html"), []byte(out))
}

package handlers

import (
	"context"
	"path/filepath"

	"github.com/quantmind-br/siteassets-go/internal/utils"
)

// GalleryFile is written inside the gallery's output directory
const GalleryFile = "gallery.json"

// GalleryHandler writes a simple directory's file list to <path>/gallery.json
type GalleryHandler struct {
	deps Deps
}

// NewGalleryHandler creates a gallery handler
func NewGalleryHandler(deps Deps) *GalleryHandler {
	return &GalleryHandler{deps: deps}
}

// Gallery is the document written by GalleryHandler
type Gallery struct {
	Path   string   `json:"path"`
	Count  int      `json:"count"`
	Images []string `json:"images"`
}

// Handle accepts a []string (or a JSON-decoded []any of strings)
func (h *GalleryHandler) Handle(ctx context.Context, content any, path string) error {
	var images []string
	switch v := content.(type) {
	case nil:
		h.deps.logger().Debug().Str("path", path).Msg("Empty gallery")
		return nil
	case []string:
		images = v
	case []any:
		images = make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return unsupported("gallery", content)
			}
			images = append(images, s)
		}
	default:
		return unsupported("gallery", content)
	}

	if images == nil {
		images = []string{}
	}

	rel := filepath.Join(utils.AssetOutputPath("", path, ""), GalleryFile)
	return h.deps.Writer.WriteJSON(ctx, rel, Gallery{Path: path, Count: len(images), Images: images})
}

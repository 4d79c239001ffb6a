package handlers

import (
	"context"

	"github.com/quantmind-br/siteassets-go/internal/utils"
)

// SnapshotHandler writes an asset's loaded value as JSON to <path>.json
type SnapshotHandler struct {
	deps Deps
}

// NewSnapshotHandler creates a snapshot handler
func NewSnapshotHandler(deps Deps) *SnapshotHandler {
	return &SnapshotHandler{deps: deps}
}

// Handle writes content; nil content is skipped
func (h *SnapshotHandler) Handle(ctx context.Context, content any, path string) error {
	if content == nil {
		h.deps.logger().Debug().Str("path", path).Msg("Nothing to snapshot")
		return nil
	}
	return h.deps.Writer.WriteJSON(ctx, utils.AssetOutputPath("", path, ".json"), content)
}

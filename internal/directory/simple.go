package directory

import (
	"context"
	"encoding/json"

	"github.com/quantmind-br/siteassets-go/internal/domain"
	"github.com/quantmind-br/siteassets-go/internal/utils"
)

// ManifestFile is the per-directory file list read by SimpleStrategy
const ManifestFile = "manifest.json"

// SimpleStrategy reads <dir>/manifest.json and keeps the files whose
// extension is allowed
type SimpleStrategy struct {
	deps *Dependencies
}

// NewSimpleStrategy creates a simple directory strategy
func NewSimpleStrategy(deps *Dependencies) *SimpleStrategy {
	return &SimpleStrategy{deps: deps}
}

// Name returns the strategy name
func (s *SimpleStrategy) Name() string {
	return "simple"
}

// CanHandle accepts directories with a non-combo contains block
func (s *SimpleStrategy) CanHandle(asset domain.AssetDescriptor) bool {
	return asset.IsDirectory() && asset.Contains != nil && !asset.Contains.IsCombo()
}

// Load returns the allowed files as "<dir>/<name>" in manifest order.
// The result is never nil.
func (s *SimpleStrategy) Load(ctx context.Context, asset domain.AssetDescriptor) (any, error) {
	logger := s.deps.logger().WithAsset(asset.Path)
	files := []string{}
	manifestPath := utils.JoinAssetPath(asset.Path, ManifestFile)

	resp, err := get(ctx, s.deps.Fetcher, manifestPath)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn().Err(err).Str("manifest", manifestPath).Msg("No directory manifest found")
		return files, nil
	}

	var doc map[string]any
	if err := json.Unmarshal(trimBOM(resp.Body), &doc); err != nil {
		logger.Warn().Err(err).Str("manifest", manifestPath).Msg("Failed to decode directory manifest")
		return files, nil
	}

	entries, ok := doc["files"].([]any)
	if !ok {
		logger.Warn().Str("manifest", manifestPath).Msg("Directory manifest has no files array")
		return files, nil
	}

	for i, entry := range entries {
		name, ok := entry.(string)
		if !ok {
			logger.Warn().Int("index", i).Interface("entry", entry).Msg("Skipping non-string file entry")
			continue
		}
		if utils.HasExtension(name, asset.Contains.AllowedExtensions) {
			files = append(files, utils.JoinAssetPath(asset.Path, name))
		}
	}

	return files, nil
}

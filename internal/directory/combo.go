package directory

import (
	"context"
	"net/url"
	"strings"

	"github.com/quantmind-br/siteassets-go/internal/domain"
	"github.com/quantmind-br/siteassets-go/internal/utils"
)

// ComboStrategy groups directory files by basename and loads each file by
// the asset type bound to its extension
type ComboStrategy struct {
	deps *Dependencies
}

// NewComboStrategy creates a combo strategy
func NewComboStrategy(deps *Dependencies) *ComboStrategy {
	return &ComboStrategy{deps: deps}
}

// Name returns the strategy name
func (s *ComboStrategy) Name() string {
	return domain.DirectoryCombo
}

// CanHandle accepts directories whose contains type is combo
func (s *ComboStrategy) CanHandle(asset domain.AssetDescriptor) bool {
	return asset.IsCombo()
}

// fileGroup keeps the extensions of one basename in first-seen order
type fileGroup struct {
	exts  []string
	files map[string]string
}

// Load lists the directory and returns a domain.ComboGroup
func (s *ComboStrategy) Load(ctx context.Context, asset domain.AssetDescriptor) (any, error) {
	logger := s.deps.logger().WithAsset(asset.Path)
	dir := asset.Path
	result := domain.ComboGroup{}

	extMap := ExtensionMap(asset.Contains.Parts)

	hrefs, err := s.deps.lister().List(ctx, dir)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn().Err(err).Msg("Could not access directory")
		return result, nil
	}

	order, groups := groupFiles(hrefs, extMap)
	logger.Debug().Int("groups", len(order)).Msg("Directory listed")

	for _, base := range order {
		g := groups[base]
		values := make(map[string]any, len(g.exts))
		result[base] = values

		for _, ext := range g.exts {
			// Group keys use the decoded name; the fetch path stays escaped
			// so "#", "?" and "%" in file names survive URL resolution.
			filePath := utils.JoinAssetPath(dir, url.PathEscape(g.files[ext]))

			var (
				value any
				err   error
			)
			switch extMap[ext] {
			case domain.AssetImage:
				value = filePath
			case domain.AssetJSON:
				value, err = FetchJSON(ctx, s.deps.Fetcher, filePath)
			case domain.AssetText:
				value, err = FetchText(ctx, s.deps.Fetcher, filePath)
			default:
				continue
			}

			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				logger.Warn().Err(err).Str("file", filePath).Msg("Failed to load file")
				continue
			}
			values[ext] = value
		}
	}

	return result, nil
}

// ExtensionMap binds each allowed extension to its part's asset type.
// A later part wins when two parts list the same extension.
func ExtensionMap(parts []domain.ComboPart) map[string]string {
	m := make(map[string]string)
	for _, part := range parts {
		for _, ext := range part.AllowedExtensions {
			if ext = utils.NormalizeExtension(ext); ext != "" {
				m[ext] = part.AssetType
			}
		}
	}
	return m
}

// groupFiles filters listing hrefs down to mapped files and groups them by
// basename. The returned slice holds basenames in first-seen order.
func groupFiles(hrefs []string, extMap map[string]string) ([]string, map[string]*fileGroup) {
	var order []string
	groups := make(map[string]*fileGroup)

	for _, href := range hrefs {
		if href == "" || strings.HasPrefix(href, "..") || strings.HasSuffix(href, "/") {
			continue
		}

		name := utils.LinkFilename(href)
		if name == "" {
			continue
		}

		ext := utils.FileExt(name)
		if _, ok := extMap[ext]; !ok {
			continue
		}

		base := utils.BaseName(name)
		g, ok := groups[base]
		if !ok {
			g = &fileGroup{files: make(map[string]string)}
			groups[base] = g
			order = append(order, base)
		}
		if _, seen := g.files[ext]; !seen {
			g.exts = append(g.exts, ext)
		}
		g.files[ext] = name
	}

	return order, groups
}

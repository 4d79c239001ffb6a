package loader

import (
	"context"
	"strings"

	"github.com/quantmind-br/siteassets-go/internal/directory"
	"github.com/quantmind-br/siteassets-go/internal/domain"
	"github.com/quantmind-br/siteassets-go/internal/utils"
)

// resolver turns manifest descriptors into content values
type resolver struct {
	fetcher    domain.Fetcher
	strategies []directory.Strategy
	logger     *utils.Logger
}

// resolveAll fills content in manifest order, one descriptor at a time.
// Only context cancellation stops it early.
func (r *resolver) resolveAll(ctx context.Context, assets []domain.AssetDescriptor, content domain.ContentMap, report *Report, hooks Hooks) error {
	for _, asset := range assets {
		if err := ctx.Err(); err != nil {
			return err
		}

		value, rec, err := r.resolve(ctx, asset)
		if err != nil {
			return err
		}
		if rec.Outcome == OutcomeLoaded {
			content[asset.Path] = value
		}

		report.addAsset(rec)
		if hooks.AssetResolved != nil {
			hooks.AssetResolved(rec)
		}
	}
	return nil
}

// resolve loads one descriptor. The returned error is non-nil only when
// ctx is done; every other failure is logged and reported in the record.
func (r *resolver) resolve(ctx context.Context, asset domain.AssetDescriptor) (any, AssetRecord, error) {
	rec := AssetRecord{Path: asset.Path, Type: asset.Type}
	logger := r.logger.WithAsset(asset.Path)

	if asset.IsDirectory() {
		strategy := directory.Select(r.strategies, asset)
		if strategy == nil {
			rec.Outcome, rec.Reason = OutcomeSkipped, "no directory strategy"
			logger.Warn().Msg("No directory strategy for asset")
			return nil, rec, nil
		}

		value, err := strategy.Load(ctx, asset)
		if err != nil {
			return nil, rec, err
		}
		logger.Debug().Str("strategy", strategy.Name()).Msg("Directory loaded")
		rec.Outcome = OutcomeLoaded
		return value, rec, nil
	}

	if asset.Type == domain.AssetImage {
		rec.Outcome = OutcomeLoaded
		return asset.Path, rec, nil
	}

	var (
		value any
		err   error
	)
	switch contentKind(asset) {
	case domain.AssetJSON:
		value, err = directory.FetchJSON(ctx, r.fetcher, asset.Path)
	case domain.AssetText:
		value, err = directory.FetchText(ctx, r.fetcher, asset.Path)
	default:
		rec.Outcome, rec.Reason = OutcomeSkipped, "unsupported asset type"
		logger.Debug().Str("type", asset.Type).Msg("Ignoring asset")
		return nil, rec, nil
	}

	if err != nil {
		if ctx.Err() != nil {
			return nil, rec, ctx.Err()
		}
		rec.Reason = err.Error()
		switch {
		case domain.IsNotFound(err):
			rec.Outcome, rec.Reason = OutcomeSkipped, ReasonNotFound
			logger.Warn().Msg("Asset not found, skipping")
		case domain.IsStatusError(err):
			rec.Outcome = OutcomeSkipped
			logger.Warn().Err(err).Msg("Failed to load asset")
		default:
			rec.Outcome = OutcomeFailed
			logger.Warn().Err(err).Msg("Failed to load asset")
		}
		return nil, rec, nil
	}

	rec.Outcome = OutcomeLoaded
	return value, rec, nil
}

// contentKind decides how a non-directory, non-image asset is decoded:
// JSON when typed json or named *.json, text when typed text and named
// *.md, and "" for everything else.
func contentKind(asset domain.AssetDescriptor) string {
	switch {
	case asset.Type == domain.AssetJSON || strings.HasSuffix(asset.Path, ".json"):
		return domain.AssetJSON
	case asset.Type == domain.AssetText && strings.HasSuffix(asset.Path, ".md"):
		return domain.AssetText
	}
	return ""
}

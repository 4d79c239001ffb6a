package directory

import (
	"context"

	"github.com/quantmind-br/siteassets-go/internal/domain"
	"github.com/quantmind-br/siteassets-go/internal/utils"
)

// Strategy expands one kind of directory asset
type Strategy interface {
	// Name returns the strategy name
	Name() string
	// CanHandle reports whether the strategy expands this descriptor
	CanHandle(asset domain.AssetDescriptor) bool
	// Load returns the content value for the descriptor. Per-file failures
	// are logged and omitted; only context cancellation is returned.
	Load(ctx context.Context, asset domain.AssetDescriptor) (any, error)
}

// Dependencies contains shared dependencies for all strategies
type Dependencies struct {
	Fetcher domain.Fetcher
	Lister  Lister
	Logger  *utils.Logger
}

func (d *Dependencies) logger() *utils.Logger {
	if d.Logger == nil {
		return utils.NewNopLogger()
	}
	return d.Logger
}

func (d *Dependencies) lister() Lister {
	if d.Lister == nil {
		return NewIndexLister(d.Fetcher)
	}
	return d.Lister
}

// DefaultStrategies returns the directory strategies in selection order
func DefaultStrategies(deps *Dependencies) []Strategy {
	return []Strategy{
		NewComboStrategy(deps),
		NewSimpleStrategy(deps),
		NewPassthroughStrategy(),
	}
}

// Select returns the first strategy that can handle asset, or nil
func Select(strategies []Strategy, asset domain.AssetDescriptor) Strategy {
	for _, s := range strategies {
		if s.CanHandle(asset) {
			return s
		}
	}
	return nil
}

// PassthroughStrategy stores the directory path itself. It covers directory
// assets declared without a contains block.
type PassthroughStrategy struct{}

// NewPassthroughStrategy creates a passthrough strategy
func NewPassthroughStrategy() *PassthroughStrategy {
	return &PassthroughStrategy{}
}

// Name returns the strategy name
func (s *PassthroughStrategy) Name() string {
	return "passthrough"
}

// CanHandle accepts directories without a contains block
func (s *PassthroughStrategy) CanHandle(asset domain.AssetDescriptor) bool {
	return asset.IsDirectory() && asset.Contains == nil
}

// Load returns the directory path
func (s *PassthroughStrategy) Load(_ context.Context, asset domain.AssetDescriptor) (any, error) {
	return asset.Path, nil
}

// Package loader runs the site asset pipeline: fetch the manifest, resolve
// every asset into a content map, dispatch handlers, then signal completion.
package loader

import (
	"context"
	"errors"
	"sync"

	"github.com/quantmind-br/siteassets-go/internal/directory"
	"github.com/quantmind-br/siteassets-go/internal/domain"
	"github.com/quantmind-br/siteassets-go/internal/handlers"
	"github.com/quantmind-br/siteassets-go/internal/manifest"
	"github.com/quantmind-br/siteassets-go/internal/utils"
)

// Hooks observe pipeline progress. Every field is optional.
type Hooks struct {
	ManifestLoaded func(m *domain.Manifest)
	AssetResolved  func(rec AssetRecord)
	HandlerDone    func(rec HandlerRecord)
}

// Options contains options for creating a Loader
type Options struct {
	Fetcher  domain.Fetcher
	Registry *handlers.Registry
	// Lister enumerates combo directories; nil selects autoindex parsing
	Lister directory.Lister
	// Strategies overrides the directory strategies
	Strategies []directory.Strategy
	Logger     *utils.Logger
	Hooks      Hooks
}

// Loader runs load sessions against one site
type Loader struct {
	fetcher    domain.Fetcher
	manifests  *manifest.Loader
	resolver   *resolver
	dispatcher *dispatcher
	logger     *utils.Logger
	hooks      Hooks

	mu      sync.RWMutex
	current *Session
}

// New creates a Loader
func New(opts Options) (*Loader, error) {
	if opts.Fetcher == nil {
		return nil, errors.New("loader: fetcher is required")
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}
	if opts.Registry == nil {
		opts.Registry = handlers.NewRegistry()
	}

	logger := opts.Logger.WithComponent("loader")

	strategies := opts.Strategies
	if strategies == nil {
		strategies = directory.DefaultStrategies(&directory.Dependencies{
			Fetcher: opts.Fetcher,
			Lister:  opts.Lister,
			Logger:  logger,
		})
	}

	return &Loader{
		fetcher:   opts.Fetcher,
		manifests: manifest.NewLoader(),
		resolver: &resolver{
			fetcher:    opts.Fetcher,
			strategies: strategies,
			logger:     logger,
		},
		dispatcher: &dispatcher{
			registry: opts.Registry,
			logger:   logger,
		},
		logger: logger,
		hooks:  opts.Hooks,
	}, nil
}

// Start runs the pipeline for the manifest at location in a new goroutine.
// An empty location selects domain.DefaultManifestPath.
func (l *Loader) Start(ctx context.Context, location string) *Session {
	if location == "" {
		location = domain.DefaultManifestPath
	}
	s := newSession(l, location)
	go l.run(ctx, s)
	return s
}

// LoadSiteAssets runs the pipeline and waits for it. A manifest failure
// returns the error and no session.
func (l *Loader) LoadSiteAssets(ctx context.Context, location string) (*Session, error) {
	s := l.Start(ctx, location)
	if _, err := s.Wait(); err != nil {
		return nil, err
	}
	return s, nil
}

// Current returns the most recently completed session, or nil
func (l *Loader) Current() *Session {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

func (l *Loader) run(ctx context.Context, s *Session) {
	logger := l.logger.With().Str("manifest", s.location).Logger()

	m, err := l.manifests.Fetch(ctx, l.fetcher, s.location)
	if err != nil {
		logger.Error().Err(err).Msg("Error loading site assets")
		s.finish(err)
		return
	}
	s.setManifest(m)
	logger.Debug().Int("assets", len(m.Assets)).Msg("Manifest loaded")
	if l.hooks.ManifestLoaded != nil {
		l.hooks.ManifestLoaded(m)
	}

	if err := l.resolver.resolveAll(ctx, m.Assets, s.ContentData(), s.report, l.hooks); err != nil {
		logger.Warn().Err(err).Msg("Load cancelled during content stage")
		s.finish(err)
		return
	}

	if err := s.LoadHandlers(ctx); err != nil {
		logger.Warn().Err(err).Msg("Load cancelled during handler stage")
		s.finish(err)
		return
	}

	l.mu.Lock()
	l.current = s
	l.mu.Unlock()

	loaded, skipped, failed := s.report.Counts()
	logger.Info().
		Int("loaded", loaded).
		Int("skipped", skipped).
		Int("failed", failed).
		Int("handler_errors", len(s.report.HandlerErrors())).
		Msg("Site assets loaded")

	s.finish(nil)
}

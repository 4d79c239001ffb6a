// Package app wires configuration into a fetcher, cache, output writer,
// handler registry and loader, and runs them for one site.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/quantmind-br/siteassets-go/internal/cache"
	"github.com/quantmind-br/siteassets-go/internal/config"
	"github.com/quantmind-br/siteassets-go/internal/directory"
	"github.com/quantmind-br/siteassets-go/internal/domain"
	"github.com/quantmind-br/siteassets-go/internal/fetcher"
	"github.com/quantmind-br/siteassets-go/internal/handlers"
	"github.com/quantmind-br/siteassets-go/internal/loader"
	"github.com/quantmind-br/siteassets-go/internal/output"
	"github.com/quantmind-br/siteassets-go/internal/state"
	"github.com/quantmind-br/siteassets-go/internal/utils"
)

// Orchestrator coordinates loading one site and persisting what its handlers produce
type Orchestrator struct {
	config   *config.Config
	root     string
	opts     OrchestratorOptions
	fetcher  domain.Fetcher
	cache    domain.Cache
	writer   *output.Writer
	state    *state.Manager
	registry *handlers.Registry
	loader   *loader.Loader
	logger   *utils.Logger

	barMu sync.Mutex
	bar   *progressbar.ProgressBar
}

// OrchestratorOptions contains options for creating an orchestrator
type OrchestratorOptions struct {
	domain.CommonOptions
	Config *config.Config
	// Root overrides Config.Site.Root
	Root string
	// Watch keeps reloading a local site until the context ends
	Watch bool
	// Progress receives the progress bar; nil disables it
	Progress io.Writer
	Logger   *utils.Logger
	// Fetcher replaces the fetcher built from Root
	Fetcher domain.Fetcher
}

// NewOrchestrator creates a new orchestrator with the given configuration
func NewOrchestrator(opts OrchestratorOptions) (*Orchestrator, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	root := opts.Root
	if root == "" {
		root = cfg.Site.Root
	}
	if root == "" {
		root = config.DefaultRoot
	}

	logger := opts.Logger
	if logger == nil {
		level := cfg.Logging.Level
		if opts.Verbose {
			level = "debug"
		}
		logger = utils.NewLogger(utils.LoggerOptions{
			Level:   level,
			Format:  cfg.Logging.Format,
			Verbose: opts.Verbose,
		})
	}

	o := &Orchestrator{
		config: cfg,
		root:   root,
		opts:   opts,
		logger: logger,
	}

	f := opts.Fetcher
	if f == nil {
		var err error
		f, err = o.newFetcher()
		if err != nil {
			o.Close()
			return nil, err
		}
	}
	o.fetcher = f

	o.writer = output.NewWriter(output.WriterOptions{
		BaseDir: utils.ExpandPath(cfg.Output.Directory),
		// Reloads rewrite the same artifacts
		Force:  opts.Force || cfg.Output.Overwrite || opts.Watch,
		DryRun: opts.DryRun || cfg.Output.DryRun,
		Logger: logger,
	})

	o.state = state.NewManager(state.ManagerOptions{
		BaseDir:  o.writer.BaseDir(),
		Root:     root,
		Manifest: cfg.Site.Manifest,
		Logger:   logger,
		Disabled: opts.DryRun || cfg.Output.DryRun,
	})

	o.registry = handlers.NewDefaultRegistry(handlers.Deps{
		Writer: o.writer,
		Logger: logger,
	})
	logger.Debug().Int("handlers", o.registry.Len()).Msg("Handler registry ready")

	l, err := loader.New(loader.Options{
		Fetcher:  f,
		Registry: o.registry,
		Lister:   directory.NewLister(cfg.Directory.Listing, f),
		Logger:   logger,
		Hooks:    o.hooks(),
	})
	if err != nil {
		o.Close()
		return nil, err
	}
	o.loader = l

	return o, nil
}

// newFetcher builds the site fetcher, with a badger cache for http roots when enabled
func (o *Orchestrator) newFetcher() (domain.Fetcher, error) {
	cfg := o.config
	clientOpts := fetcher.DefaultClientOptions()
	clientOpts.Timeout = cfg.Fetch.Timeout
	clientOpts.MaxRetries = cfg.Fetch.MaxRetries
	clientOpts.CacheTTL = cfg.Cache.TTL
	clientOpts.UserAgent = cfg.Fetch.UserAgent
	clientOpts.ProxyURL = cfg.Fetch.Proxy

	if cfg.Cache.Enabled && utils.IsHTTPURL(o.root) {
		c, err := cache.NewBadgerCache(cache.Options{
			Directory: utils.ExpandPath(cfg.Cache.Directory),
		})
		if err != nil {
			o.logger.Warn().Err(err).Msg("Cache unavailable, continuing without it")
		} else {
			o.logger.Debug().Fields(c.Stats()).Msg("Cache opened")
			o.cache = c
			clientOpts.EnableCache = true
			clientOpts.Cache = c
		}
	}

	f, err := fetcher.New(o.root, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create fetcher: %w", err)
	}
	return f, nil
}

func (o *Orchestrator) hooks() loader.Hooks {
	if o.opts.Progress == nil {
		return loader.Hooks{}
	}
	return loader.Hooks{
		ManifestLoaded: func(m *domain.Manifest) {
			o.barMu.Lock()
			o.bar = utils.NewProgressBar(o.opts.Progress, len(m.Assets), utils.DescResolving)
			o.barMu.Unlock()
		},
		AssetResolved: func(loader.AssetRecord) {
			o.barMu.Lock()
			if o.bar != nil {
				_ = o.bar.Add(1)
			}
			o.barMu.Unlock()
		},
	}
}

func (o *Orchestrator) finishBar() {
	o.barMu.Lock()
	if o.bar != nil {
		_ = o.bar.Finish()
		o.bar = nil
	}
	o.barMu.Unlock()
}

// Loader returns the underlying loader
func (o *Orchestrator) Loader() *loader.Loader {
	return o.loader
}

// Registry returns the handler registry
func (o *Orchestrator) Registry() *handlers.Registry {
	return o.registry
}

// Writer returns the output writer
func (o *Orchestrator) Writer() *output.Writer {
	return o.writer
}

// Run loads the site once, writes the report and, in watch mode, keeps
// reloading until ctx is done. The manifest error of the first load is
// returned; later reload failures are only logged.
func (o *Orchestrator) Run(ctx context.Context) (*loader.Session, error) {
	startTime := time.Now()

	o.logger.Info().
		Str("root", o.root).
		Str("manifest", o.config.Site.Manifest).
		Str("output", o.writer.BaseDir()).
		Msg("Loading site assets")

	if err := o.writer.EnsureBaseDir(); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	s, err := o.load(ctx)
	if err != nil {
		if ctx.Err() != nil {
			o.logger.Warn().Msg("Load cancelled")
			return nil, ctx.Err()
		}
		return nil, err
	}

	event := o.logger.Info().
		Dur("duration", time.Since(startTime)).
		Int("written", len(o.writer.Written())).
		Int("skipped", len(o.writer.Skipped()))
	if files, size, err := o.writer.Stats(); err == nil {
		event = event.Int("output_files", files).Int64("output_bytes", size)
	}
	event.Msg("Site assets processed")

	if o.opts.Watch {
		if err := o.watch(ctx); err != nil {
			return s, err
		}
	}
	return s, nil
}

func (o *Orchestrator) load(ctx context.Context) (*loader.Session, error) {
	o.writer.Reset()
	s, err := o.loader.LoadSiteAssets(ctx, o.config.Site.Manifest)
	o.finishBar()
	if err != nil {
		return nil, err
	}
	o.writeReport(ctx, s)
	o.track(ctx)
	return s, nil
}

// track records this run's artifacts and prunes stale ones when enabled
func (o *Orchestrator) track(ctx context.Context) {
	if o.state.IsDisabled() {
		return
	}
	if err := o.state.Load(ctx); err != nil && !errors.Is(err, state.ErrStateNotFound) {
		o.logger.Debug().Err(err).Msg("Starting with empty output state")
	}
	o.state.StartRun()

	for _, path := range o.writer.Written() {
		if err := o.state.Record(path); err != nil {
			o.logger.Warn().Err(err).Str("file", path).Msg("Failed to track artifact")
		}
	}
	for _, path := range o.writer.Skipped() {
		if err := o.state.MarkSeen(path); err != nil {
			o.logger.Warn().Err(err).Str("file", path).Msg("Failed to track artifact")
		}
	}

	if files, err := o.writer.Files(); err == nil {
		if dropped := o.state.Reconcile(files); dropped > 0 {
			o.logger.Debug().Int("dropped", dropped).Msg("Forgot artifacts removed from disk")
		}
	}

	if o.config.Output.Prune {
		pruned, err := o.state.Prune(ctx)
		if err != nil {
			o.logger.Warn().Err(err).Msg("Failed to prune stale artifacts")
		} else if pruned > 0 {
			o.logger.Info().Int("pruned", pruned).Msg("Removed stale artifacts")
		}
	}

	if err := o.state.Save(ctx); err != nil {
		o.logger.Warn().Err(err).Msg("Failed to save state")
	}
}

func (o *Orchestrator) writeReport(ctx context.Context, s *loader.Session) {
	if !o.config.Output.Report {
		return
	}
	if err := o.writer.WriteReport(ctx, s.Report()); err != nil {
		o.logger.Warn().Err(err).Msg("Failed to write report")
	}
}

// watch blocks until ctx is done, reloading on changes under the local root
func (o *Orchestrator) watch(ctx context.Context) error {
	if utils.IsHTTPURL(o.root) {
		return fmt.Errorf("watch mode needs a local site root, got %s", o.root)
	}

	w, err := loader.NewWatcher(o.loader, loader.WatchOptions{
		Root:     utils.ExpandPath(o.root),
		Location: o.config.Site.Manifest,
		Debounce: o.config.Watch.Debounce,
		Ignore:   []string{o.writer.BaseDir()},
		Logger:   o.logger,
		OnReload: func(s *loader.Session, err error) {
			o.finishBar()
			if err == nil {
				o.writeReport(ctx, s)
				o.track(ctx)
			}
			o.writer.Reset()
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	<-ctx.Done()
	w.Stop()
	o.logger.Info().Int("reloads", w.Stats().Reloads).Msg("Watch stopped")
	return nil
}

// Close releases all resources held by the orchestrator
func (o *Orchestrator) Close() error {
	var firstErr error
	if o.fetcher != nil {
		if err := o.fetcher.Close(); err != nil {
			firstErr = err
		}
	}
	if o.cache != nil {
		if err := o.cache.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

package loader

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/quantmind-br/siteassets-go/internal/utils"
)

// DefaultDebounce is how long the watcher waits for changes to settle
const DefaultDebounce = 300 * time.Millisecond

// WatchOptions configures a Watcher
type WatchOptions struct {
	// Root is the local site directory to watch
	Root string
	// Location is the manifest location passed to each reload
	Location string
	Debounce time.Duration
	// Ignore lists directories whose events never trigger a reload
	Ignore []string
	Logger *utils.Logger
	// OnReload is called after every reload attempt
	OnReload func(s *Session, err error)
}

// WatchStats counts watcher activity
type WatchStats struct {
	Events        int
	Reloads       int
	ReloadErrors  int
	Errors        int
	WatchedDirs   int
	LastEventPath string
	LastEventTime time.Time
	LastReload    time.Time
}

// Watcher reloads site assets when files under a local site root change
type Watcher struct {
	mu       sync.RWMutex
	watcher  *fsnotify.Watcher
	loader   *Loader
	opts     WatchOptions
	ignore   []string
	logger   *utils.Logger
	pending  time.Time
	dirs     map[string]struct{}
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	stopOnce sync.Once

	stats WatchStats
}

// NewWatcher creates a Watcher for l. It does not start watching.
func NewWatcher(l *Loader, opts WatchOptions) (*Watcher, error) {
	if l == nil {
		return nil, errors.New("watcher: loader is required")
	}
	if opts.Root == "" {
		return nil, errors.New("watcher: root is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, err
	}
	opts.Root = root

	ignore := make([]string, 0, len(opts.Ignore))
	for _, dir := range opts.Ignore {
		if dir == "" {
			continue
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		ignore = append(ignore, abs)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher: fw,
		loader:  l,
		opts:    opts,
		ignore:  ignore,
		logger:  opts.Logger.WithComponent("watcher"),
		dirs:    make(map[string]struct{}),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Start adds the site tree to the watch list and begins processing events
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.addTree(w.opts.Root); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	w.logger.Info().Str("root", w.opts.Root).Int("dirs", w.Stats().WatchedDirs).Msg("Watching for changes")

	go w.run(ctx)
	return nil
}

// Stop ends event processing and releases the underlying watcher.
// It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		running := w.running
		w.running = false
		w.mu.Unlock()

		close(w.stopCh)
		if running {
			<-w.doneCh
		}
		if err := w.watcher.Close(); err != nil {
			w.logger.Error().Err(err).Msg("Failed to close watcher")
		}
		w.logger.Debug().Msg("Watcher stopped")
	})
}

// Done is closed when the event loop exits
func (w *Watcher) Done() <-chan struct{} {
	return w.doneCh
}

// Stats returns a snapshot of watcher activity
func (w *Watcher) Stats() WatchStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	s := w.stats
	s.WatchedDirs = len(w.dirs)
	return s
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.opts.Debounce / 3)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("Watch error")
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
		case <-ticker.C:
			w.maybeReload(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod || w.ignored(event.Name) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn().Err(err).Str("dir", event.Name).Msg("Failed to watch new directory")
			}
		}
	}

	w.logger.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("Change detected")

	w.mu.Lock()
	w.stats.Events++
	w.stats.LastEventPath = event.Name
	w.stats.LastEventTime = time.Now()
	w.pending = w.stats.LastEventTime
	w.mu.Unlock()
}

// maybeReload reloads once the last change is older than the debounce window
func (w *Watcher) maybeReload(ctx context.Context) {
	w.mu.Lock()
	if w.pending.IsZero() || time.Since(w.pending) < w.opts.Debounce {
		w.mu.Unlock()
		return
	}
	w.pending = time.Time{}
	w.mu.Unlock()

	s, err := w.loader.LoadSiteAssets(ctx, w.opts.Location)

	w.mu.Lock()
	w.stats.Reloads++
	w.stats.LastReload = time.Now()
	if err != nil {
		w.stats.ReloadErrors++
	}
	w.mu.Unlock()

	if err != nil {
		w.logger.Error().Err(err).Msg("Reload failed")
	} else {
		w.logger.Info().Msg("Site assets reloaded")
	}
	if w.opts.OnReload != nil {
		w.opts.OnReload(s, err)
	}
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignored(path) || (path != w.opts.Root && strings.HasPrefix(d.Name(), ".")) {
			return filepath.SkipDir
		}

		w.mu.Lock()
		_, seen := w.dirs[path]
		w.mu.Unlock()
		if seen {
			return nil
		}

		if err := w.watcher.Add(path); err != nil {
			return err
		}
		w.mu.Lock()
		w.dirs[path] = struct{}{}
		w.mu.Unlock()
		return nil
	})
}

func (w *Watcher) ignored(path string) bool {
	for _, dir := range w.ignore {
		if utils.IsWithinDir(dir, path) {
			return true
		}
	}
	return false
}

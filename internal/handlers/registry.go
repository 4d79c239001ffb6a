// Package handlers holds the handler registry and the built-in handlers.
//
// Manifests name handlers the way a browser module import would
// ("./handlers/gigs.js"); the registry maps every such spelling onto one
// statically registered domain.Handler.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/quantmind-br/siteassets-go/internal/domain"
	"github.com/quantmind-br/siteassets-go/internal/utils"
)

// ErrUnsupportedContent indicates a handler received a content value of the wrong shape
var ErrUnsupportedContent = errors.New("unsupported content")

// ArtifactWriter persists handler output below the output directory
type ArtifactWriter interface {
	WriteJSON(ctx context.Context, rel string, v any) error
	WriteFile(ctx context.Context, rel string, data []byte) error
}

// Deps holds what the built-in handlers need
type Deps struct {
	Writer ArtifactWriter
	Logger *utils.Logger
}

func (d Deps) logger() *utils.Logger {
	if d.Logger == nil {
		return utils.NewNopLogger()
	}
	return d.Logger
}

// Registry maps normalized handler identifiers to handlers
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]domain.Handler
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]domain.Handler)}
}

// NewDefaultRegistry creates a registry holding the built-in handlers
func NewDefaultRegistry(deps Deps) *Registry {
	r := NewRegistry()
	RegisterBuiltins(r, deps)
	return r
}

// RegisterBuiltins registers snapshot, markdown, gigs (alias events) and gallery
func RegisterBuiltins(r *Registry, deps Deps) {
	gigs := NewGigsHandler(deps)
	r.MustRegister("snapshot", NewSnapshotHandler(deps))
	r.MustRegister("markdown", NewMarkdownHandler(deps))
	r.MustRegister("gigs", gigs)
	r.MustRegister("events", gigs)
	r.MustRegister("gallery", NewGalleryHandler(deps))
}

// Normalize reduces a handler identifier to its registry key.
// "./handlers/gigs.js", "handlers/gigs.js" and "handlers/gigs" all
// normalize to "handlers/gigs".
func Normalize(id string) string {
	id = strings.TrimSpace(id)
	for strings.HasPrefix(id, "./") {
		id = id[2:]
	}
	id = strings.TrimSuffix(id, ".js")
	return strings.Trim(id, "/")
}

// Register adds h under id. Registering the same key twice is an error.
func (r *Registry) Register(id string, h domain.Handler) error {
	key := Normalize(id)
	if key == "" {
		return fmt.Errorf("handler identifier %q is empty", id)
	}
	if h == nil {
		return fmt.Errorf("handler %q is nil", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[key]; exists {
		return fmt.Errorf("handler %q already registered", key)
	}
	r.handlers[key] = h
	return nil
}

// MustRegister is Register that panics on error
func (r *Registry) MustRegister(id string, h domain.Handler) {
	if err := r.Register(id, h); err != nil {
		panic(err)
	}
}

// Lookup finds the handler for id. It tries the full normalized identifier
// first, then its last path segment. The key that matched is returned.
func (r *Registry) Lookup(id string) (domain.Handler, string, bool) {
	key := Normalize(id)
	if key == "" {
		return nil, "", false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if h, ok := r.handlers[key]; ok {
		return h, key, true
	}
	if base := path.Base(key); base != key {
		if h, ok := r.handlers[base]; ok {
			return h, base, true
		}
	}
	return nil, "", false
}

// Names returns the registered keys, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered keys
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

func unsupported(handler string, content any) error {
	return fmt.Errorf("%w: %s expects a different value, got %T", ErrUnsupportedContent, handler, content)
}

// Package state tracks the artifacts each run writes so that artifacts the
// current manifest no longer produces can be pruned.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/quantmind-br/siteassets-go/internal/utils"
)

// StateFileName is the state file kept inside the output directory
const StateFileName = ".siteassets-state.json"

// Manager loads, updates and saves the output state of one output directory
type Manager struct {
	baseDir  string
	state    *OutputState
	mu       sync.RWMutex
	dirty    bool
	logger   *utils.Logger
	disabled bool
	seen     map[string]struct{}
}

// ManagerOptions contains options for creating a Manager
type ManagerOptions struct {
	BaseDir  string
	Root     string
	Manifest string
	Logger   *utils.Logger
	Disabled bool
}

// NewManager creates a Manager; call Load to pick up the previous run
func NewManager(opts ManagerOptions) *Manager {
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}
	return &Manager{
		baseDir:  opts.BaseDir,
		logger:   opts.Logger,
		disabled: opts.Disabled,
		state:    NewOutputState(opts.Root, opts.Manifest),
		seen:     make(map[string]struct{}),
	}
}

// Load reads the previous state. A missing, corrupted or outdated file
// returns a sentinel error and leaves the manager with an empty state.
func (m *Manager) Load(ctx context.Context) error {
	if m.disabled {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.statePath())
	if errors.Is(err, fs.ErrNotExist) {
		return ErrStateNotFound
	}
	if err != nil {
		return err
	}

	var loaded OutputState
	if err := json.Unmarshal(data, &loaded); err != nil {
		return ErrStateCorrupted
	}

	if loaded.Version != StateVersion {
		m.logger.Warn().
			Int("file_version", loaded.Version).
			Int("expected_version", StateVersion).
			Msg("State version mismatch, will rebuild state")
		return ErrVersionMismatch
	}
	if loaded.Artifacts == nil {
		loaded.Artifacts = make(map[string]ArtifactState)
	}

	loaded.Root, loaded.Manifest = m.state.Root, m.state.Manifest
	m.state = &loaded
	return nil
}

// Save writes the state file if anything changed
func (m *Manager) Save(ctx context.Context) error {
	if m.disabled {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.dirty {
		return nil
	}

	m.state.LastRun = time.Now()

	data, err := json.MarshalIndent(m.state, "", "  ")
	if err != nil {
		return err
	}

	path := m.statePath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}

	m.dirty = false
	m.logger.Debug().
		Int("artifacts", len(m.state.Artifacts)).
		Str("path", path).
		Msg("State saved")
	return nil
}

// Record marks the artifact at path as written by this run. path is the
// file path as the output writer reports it, below the output directory.
func (m *Manager) Record(path string) error {
	if m.disabled {
		return nil
	}

	rel, err := m.rel(path)
	if err != nil {
		return err
	}

	var size int64
	if info, err := os.Stat(filepath.Join(m.baseDir, filepath.FromSlash(rel))); err == nil {
		size = info.Size()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Artifacts[rel] = ArtifactState{WrittenAt: time.Now(), Size: size}
	m.seen[rel] = struct{}{}
	m.dirty = true
	return nil
}

// MarkSeen keeps an artifact this run produced but did not rewrite
func (m *Manager) MarkSeen(path string) error {
	if m.disabled {
		return nil
	}

	rel, err := m.rel(path)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen[rel] = struct{}{}
	if !m.state.HasArtifact(rel) {
		m.state.Artifacts[rel] = ArtifactState{WrittenAt: time.Now()}
		m.dirty = true
	}
	return nil
}

// Stale returns the tracked artifacts this run has not seen, sorted
func (m *Manager) Stale() []string {
	if m.disabled {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var stale []string
	for rel := range m.state.Artifacts {
		if _, ok := m.seen[rel]; !ok {
			stale = append(stale, rel)
		}
	}
	sort.Strings(stale)
	return stale
}

// Prune deletes stale artifacts from disk and drops them from the state.
// It returns how many entries were pruned.
func (m *Manager) Prune(ctx context.Context) (int, error) {
	var pruned int
	for _, rel := range m.Stale() {
		if err := ctx.Err(); err != nil {
			return pruned, err
		}

		path := filepath.Join(m.baseDir, filepath.FromSlash(rel))
		if !utils.IsWithinDir(m.baseDir, path) {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return pruned, fmt.Errorf("failed to prune %s: %w", rel, err)
		}

		m.mu.Lock()
		delete(m.state.Artifacts, rel)
		m.dirty = true
		m.mu.Unlock()

		m.logger.Debug().Str("file", rel).Msg("Pruned stale artifact")
		pruned++
	}
	return pruned, nil
}

// Reconcile drops tracked artifacts missing from onDisk, the slash-separated
// paths found below the output directory. It returns how many were dropped.
func (m *Manager) Reconcile(onDisk []string) int {
	if m.disabled {
		return 0
	}

	present := make(map[string]struct{}, len(onDisk))
	for _, rel := range onDisk {
		present[rel] = struct{}{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var dropped int
	for rel := range m.state.Artifacts {
		if _, ok := present[rel]; ok {
			continue
		}
		delete(m.state.Artifacts, rel)
		m.dirty = true
		dropped++
	}
	return dropped
}

// StartRun clears the seen set before a new run
func (m *Manager) StartRun() {
	m.mu.Lock()
	m.seen = make(map[string]struct{})
	m.mu.Unlock()
}

// Stats returns the tracked artifact count and how many of them this run has not seen
func (m *Manager) Stats() (total, stale int) {
	m.mu.RLock()
	total = m.state.ArtifactCount()
	m.mu.RUnlock()
	return total, len(m.Stale())
}

// IsDisabled reports whether the manager ignores all calls
func (m *Manager) IsDisabled() bool {
	return m.disabled
}

func (m *Manager) rel(path string) (string, error) {
	if !utils.IsWithinDir(m.baseDir, path) {
		return "", fmt.Errorf("%s is outside %s", path, m.baseDir)
	}
	base, err := filepath.Abs(m.baseDir)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

func (m *Manager) statePath() string {
	return filepath.Join(m.baseDir, StateFileName)
}

package state_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/quantmind-br/siteassets-go/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArtifact(t *testing.T, dir, rel string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))
	return path
}

func newManager(dir string) *state.Manager {
	return state.NewManager(state.ManagerOptions{
		BaseDir:  dir,
		Root:     "/srv/site",
		Manifest: "site-assets.json",
	})
}

func TestManager_LoadNotFound(t *testing.T) {
	m := newManager(t.TempDir())
	assert.ErrorIs(t, m.Load(context.Background()), state.ErrStateNotFound)
}

func TestManager_LoadCorrupted(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, state.StateFileName), []byte("{nope"), 0644))

	m := newManager(dir)
	assert.ErrorIs(t, m.Load(context.Background()), state.ErrStateCorrupted)
}

func TestManager_LoadVersionMismatch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, state.StateFileName), []byte(`{"version":99}`), 0644))

	m := newManager(dir)
	assert.ErrorIs(t, m.Load(context.Background()), state.ErrVersionMismatch)
}

func TestManager_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	m := newManager(dir)
	require.NoError(t, m.Record(writeArtifact(t, dir, "gigs.json")))
	require.NoError(t, m.Record(writeArtifact(t, dir, "data/news.json.json")))
	require.NoError(t, m.Save(ctx))

	data, err := os.ReadFile(filepath.Join(dir, state.StateFileName))
	require.NoError(t, err)
	var saved state.OutputState
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, state.StateVersion, saved.Version)
	assert.Equal(t, "/srv/site", saved.Root)
	assert.True(t, saved.HasArtifact("data/news.json.json"))
	assert.Equal(t, int64(2), saved.Artifacts["gigs.json"].Size)

	next := newManager(dir)
	require.NoError(t, next.Load(ctx))
	total, stale := next.Stats()
	assert.Equal(t, 2, total)
	assert.Equal(t, 2, stale)
}

func TestManager_SaveWithoutChanges(t *testing.T) {
	dir := t.TempDir()
	m := newManager(dir)
	require.NoError(t, m.Save(context.Background()))
	assert.NoFileExists(t, filepath.Join(dir, state.StateFileName))
}

func TestManager_Prune(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first := newManager(dir)
	keep := writeArtifact(t, dir, "keep.json")
	untouched := writeArtifact(t, dir, "untouched.json")
	gone := writeArtifact(t, dir, "old/gone.json")
	for _, p := range []string{keep, untouched, gone} {
		require.NoError(t, first.Record(p))
	}
	require.NoError(t, first.Save(ctx))

	second := newManager(dir)
	require.NoError(t, second.Load(ctx))
	second.StartRun()
	require.NoError(t, second.Record(keep))
	require.NoError(t, second.MarkSeen(untouched))

	assert.Equal(t, []string{"old/gone.json"}, second.Stale())

	pruned, err := second.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, pruned)
	assert.NoFileExists(t, gone)
	assert.FileExists(t, keep)
	assert.FileExists(t, untouched)
	assert.Empty(t, second.Stale())
}

func TestManager_Reconcile(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	m := newManager(dir)
	require.NoError(t, m.Record(writeArtifact(t, dir, "gigs.json")))
	require.NoError(t, m.Record(writeArtifact(t, dir, "data/news.json.json")))

	assert.Equal(t, 0, m.Reconcile([]string{"gigs.json", "data/news.json.json", "untracked.json"}))
	assert.Equal(t, 1, m.Reconcile([]string{"gigs.json"}))

	total, _ := m.Stats()
	assert.Equal(t, 1, total)

	require.NoError(t, m.Save(ctx))
	next := newManager(dir)
	require.NoError(t, next.Load(ctx))
	total, _ = next.Stats()
	assert.Equal(t, 1, total)
}

func TestManager_PruneMissingFile(t *testing.T) {
	dir := t.TempDir()
	m := newManager(dir)
	require.NoError(t, m.MarkSeen(filepath.Join(dir, "ghost.json")))
	m.StartRun()

	pruned, err := m.Prune(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, pruned)
}

func TestManager_RecordOutsideBaseDir(t *testing.T) {
	m := newManager(t.TempDir())
	assert.Error(t, m.Record(filepath.Join(t.TempDir(), "x.json")))
}

func TestManager_RelativeBaseDir(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	m := newManager("site-data")
	path := writeArtifact(t, "site-data", "a.json")
	require.NoError(t, m.Record(path))
	m.StartRun()
	assert.Equal(t, []string{"a.json"}, m.Stale())
}

func TestManager_Disabled(t *testing.T) {
	dir := t.TempDir()
	m := state.NewManager(state.ManagerOptions{BaseDir: dir, Disabled: true})

	assert.True(t, m.IsDisabled())
	assert.NoError(t, m.Load(context.Background()))
	assert.NoError(t, m.Record(filepath.Join(dir, "a.json")))
	assert.Nil(t, m.Stale())
	require.NoError(t, m.Save(context.Background()))
	assert.NoFileExists(t, filepath.Join(dir, state.StateFileName))
}

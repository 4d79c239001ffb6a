package fetcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/quantmind-br/siteassets-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSiteFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
}

func TestNewLocalClient(t *testing.T) {
	dir := t.TempDir()
	writeSiteFile(t, dir, "file.txt", "x")

	c, err := NewLocalClient(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, c.Root())

	_, err = NewLocalClient(filepath.Join(dir, "file.txt"))
	assert.Error(t, err)

	_, err = NewLocalClient(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestLocalClient_Get(t *testing.T) {
	dir := t.TempDir()
	writeSiteFile(t, dir, "content/about.json", `{"title":"About"}`)
	writeSiteFile(t, dir, "content/gigs/2026-03-01.ics", "BEGIN:VEVENT")
	writeSiteFile(t, dir, "content/gigs/2026-03-01.json", `{}`)

	c, err := NewLocalClient(dir)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()

	t.Run("file", func(t *testing.T) {
		resp, err := c.Get(ctx, "content/about.json")
		require.NoError(t, err)
		assert.True(t, resp.OK())
		assert.Equal(t, `{"title":"About"}`, string(resp.Body))
		assert.Contains(t, resp.ContentType, "application/json")
	})

	t.Run("leading slash", func(t *testing.T) {
		resp, err := c.Get(ctx, "/content/about.json")
		require.NoError(t, err)
		assert.Equal(t, `{"title":"About"}`, string(resp.Body))
	})

	t.Run("directory lists entries", func(t *testing.T) {
		resp, err := c.Get(ctx, "content/gigs")
		require.NoError(t, err)
		assert.Contains(t, resp.ContentType, "text/html")
		body := string(resp.Body)
		assert.Contains(t, body, `href="2026-03-01.ics"`)
		assert.Contains(t, body, `href="2026-03-01.json"`)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := c.Get(ctx, "content/nope.json")
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestLocalClient_Get_ContextCanceled(t *testing.T) {
	dir := t.TempDir()
	writeSiteFile(t, dir, "a.txt", "a")

	c, err := NewLocalClient(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.Get(ctx, "a.txt")
	assert.Error(t, err)
}

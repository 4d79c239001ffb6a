package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "about.json", "about.json"},
		{"spaces", "spring   show", "spring-show"},
		{"invalid chars", "a:b*c", "a-b-c"},
		{"reserved", "CON", "_CON"},
		{"empty", "", "untitled"},
		{"dot dot", "..", "untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestAssetOutputPath(t *testing.T) {
	base := filepath.Join("out", "site")

	assert.Equal(t, filepath.Join(base, "content", "about.md.html"), AssetOutputPath(base, "content/about.md", ".html"))
	assert.Equal(t, filepath.Join(base, "content", "gigs.json"), AssetOutputPath(base, "/content/gigs/", ".json"))
	assert.Equal(t, filepath.Join(base, "index.json"), AssetOutputPath(base, "", ".json"))
	assert.True(t, IsWithinDir(base, AssetOutputPath(base, "../../etc/passwd", ".json")))
}

func TestIsWithinDir(t *testing.T) {
	base := t.TempDir()

	assert.True(t, IsWithinDir(base, base))
	assert.True(t, IsWithinDir(base, filepath.Join(base, "a", "b.json")))
	assert.False(t, IsWithinDir(base, filepath.Join(base, "..", "escape.json")))
	assert.False(t, IsWithinDir(base, filepath.Dir(base)))
}

func TestEnsureDir(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "dir", "file.json")

	require.NoError(t, EnsureDir(target))

	info, err := os.Stat(filepath.Dir(target))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".siteassets"), ExpandPath("~/.siteassets"))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, "/abs/path", ExpandPath("/abs/path"))
}

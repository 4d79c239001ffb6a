package output

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/quantmind-br/siteassets-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWriter(t *testing.T) {
	w := NewWriter(WriterOptions{})
	assert.Equal(t, DefaultBaseDir, w.BaseDir())

	w = NewWriter(WriterOptions{BaseDir: "/tmp/out", Force: true, DryRun: true})
	assert.Equal(t, "/tmp/out", w.BaseDir())
	assert.True(t, w.force)
	assert.True(t, w.dryRun)
}

func TestWriter_Path(t *testing.T) {
	base := t.TempDir()
	w := NewWriter(WriterOptions{BaseDir: base})

	tests := []struct {
		rel     string
		want    string
		wantErr bool
	}{
		{rel: "content/about.json.json", want: filepath.Join(base, "content", "about.json.json")},
		{rel: "gigs.json", want: filepath.Join(base, "gigs.json")},
		{rel: "a/../b.json", want: filepath.Join(base, "b.json")},
		{rel: "../escape.json", wantErr: true},
		{rel: "a/../../escape.json", wantErr: true},
		{rel: "/etc/passwd", wantErr: true},
		{rel: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			got, err := w.Path(tt.rel)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrPathEscape)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriter_WriteJSON(t *testing.T) {
	base := t.TempDir()
	w := NewWriter(WriterOptions{BaseDir: base})
	ctx := context.Background()

	require.NoError(t, w.WriteJSON(ctx, "content/about.json.json", map[string]any{"title": "About"}))

	data, err := os.ReadFile(filepath.Join(base, "content", "about.json.json"))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"title\": \"About\"\n}\n", string(data))
	assert.Equal(t, []string{filepath.Join(base, "content", "about.json.json")}, w.Written())
	assert.True(t, w.Exists("content/about.json.json"))
}

func TestWriter_WriteJSON_Unmarshalable(t *testing.T) {
	w := NewWriter(WriterOptions{BaseDir: t.TempDir()})
	err := w.WriteJSON(context.Background(), "bad.json", map[string]any{"ch": make(chan int)})
	assert.ErrorIs(t, err, domain.ErrWriteFailed)
}

func TestWriter_WriteFile_ExistingKeptWithoutForce(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "intro.md.html")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0644))

	ctx := context.Background()

	w := NewWriter(WriterOptions{BaseDir: base})
	require.NoError(t, w.WriteFile(ctx, "intro.md.html", []byte("new")))
	data, _ := os.ReadFile(target)
	assert.Equal(t, "old", string(data))
	assert.Equal(t, []string{target}, w.Skipped())
	assert.Empty(t, w.Written())

	w = NewWriter(WriterOptions{BaseDir: base, Force: true})
	require.NoError(t, w.WriteFile(ctx, "intro.md.html", []byte("new")))
	data, _ = os.ReadFile(target)
	assert.Equal(t, "new", string(data))
}

func TestWriter_DryRun(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out")
	w := NewWriter(WriterOptions{BaseDir: base, DryRun: true})

	require.NoError(t, w.EnsureBaseDir())
	require.NoError(t, w.WriteJSON(context.Background(), "gigs.json", []int{1}))

	_, err := os.Stat(base)
	assert.True(t, os.IsNotExist(err))
	assert.Len(t, w.Written(), 1)
}

func TestWriter_WriteReport_Overwrites(t *testing.T) {
	base := t.TempDir()
	w := NewWriter(WriterOptions{BaseDir: base})
	ctx := context.Background()

	require.NoError(t, w.WriteReport(ctx, map[string]int{"loaded": 1}))
	require.NoError(t, w.WriteReport(ctx, map[string]int{"loaded": 2}))

	data, err := os.ReadFile(filepath.Join(base, ReportFile))
	require.NoError(t, err)

	var got map[string]int
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 2, got["loaded"])
}

func TestWriter_ContextCanceled(t *testing.T) {
	w := NewWriter(WriterOptions{BaseDir: t.TempDir()})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, w.WriteFile(ctx, "a.txt", []byte("a")), context.Canceled)
}

func TestWriter_StatsAndFiles(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out")
	w := NewWriter(WriterOptions{BaseDir: base})
	ctx := context.Background()

	require.NoError(t, w.WriteFile(ctx, "b/two.txt", []byte("22")))
	require.NoError(t, w.WriteFile(ctx, "a.txt", []byte("1")))

	count, size, err := w.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, int64(3), size)

	files, err := w.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b/two.txt"}, files)

	w.Reset()
	assert.Empty(t, w.Written())
}

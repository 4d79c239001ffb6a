package directory

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/quantmind-br/siteassets-go/internal/domain"
	"github.com/quantmind-br/siteassets-go/internal/fetcher"
	"github.com/quantmind-br/siteassets-go/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// staticLister returns a fixed listing
type staticLister struct {
	hrefs []string
	err   error
}

func (l staticLister) List(context.Context, string) ([]string, error) {
	return l.hrefs, l.err
}

func ok(body string) *domain.Response {
	return &domain.Response{StatusCode: http.StatusOK, Body: []byte(body), ContentType: "text/plain; charset=utf-8"}
}

func notFound(path string) error {
	return domain.NewFetchError(path, http.StatusNotFound, errors.New("HTTP 404"))
}

func writeSite(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	return root
}

func gigsAsset() domain.AssetDescriptor {
	return domain.AssetDescriptor{
		Path: "content/gigs",
		Type: domain.AssetDirectory,
		Contains: &domain.DirectorySpec{
			Type: domain.DirectoryCombo,
			Parts: []domain.ComboPart{
				{AllowedExtensions: []string{".ics"}, AssetType: domain.AssetText},
				{AllowedExtensions: []string{".json"}, AssetType: domain.AssetJSON},
			},
		},
	}
}

func TestSelect(t *testing.T) {
	strategies := DefaultStrategies(&Dependencies{})

	tests := []struct {
		name  string
		asset domain.AssetDescriptor
		want  string
	}{
		{name: "combo", asset: gigsAsset(), want: "combo"},
		{name: "simple", asset: domain.AssetDescriptor{Path: "p", Type: domain.AssetDirectory, Contains: &domain.DirectorySpec{AllowedExtensions: []string{".jpg"}}}, want: "simple"},
		{name: "legacy", asset: domain.AssetDescriptor{Path: "p", Type: domain.AssetDirectory}, want: "passthrough"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Select(strategies, tt.asset)
			require.NotNil(t, s)
			assert.Equal(t, tt.want, s.Name())
		})
	}

	assert.Nil(t, Select(strategies, domain.AssetDescriptor{Path: "a.json", Type: domain.AssetJSON}))
}

func TestPassthroughStrategy_Load(t *testing.T) {
	v, err := NewPassthroughStrategy().Load(context.Background(), domain.AssetDescriptor{Path: "downloads", Type: domain.AssetDirectory})
	require.NoError(t, err)
	assert.Equal(t, "downloads", v)
}

func TestNewLister(t *testing.T) {
	assert.IsType(t, &FileIndexLister{}, NewLister(ListingIndex, nil))
	assert.IsType(t, &IndexLister{}, NewLister(ListingAutoindex, nil))
	assert.IsType(t, &IndexLister{}, NewLister("", nil))
}

func TestIndexLister_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := mocks.NewMockFetcher(ctrl)

	page := `<html><body><h1>Index of /content/gigs</h1>
<a href="../">../</a>
<a href="?C=N;O=D">Name</a>
<a href="a.ics">a.ics</a>
<a>no target</a>
<a href="">empty</a>
<a href="/content/gigs/b%20c.json">b c.json</a>
</body></html>`
	f.EXPECT().Get(gomock.Any(), "content/gigs").Return(ok(page), nil)

	hrefs, err := NewIndexLister(f).List(context.Background(), "content/gigs")
	require.NoError(t, err)
	assert.Equal(t, []string{"../", "?C=N;O=D", "a.ics", "/content/gigs/b%20c.json"}, hrefs)
}

func TestIndexLister_List_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := mocks.NewMockFetcher(ctrl)
	f.EXPECT().Get(gomock.Any(), "content/gigs").Return(nil, notFound("content/gigs"))

	_, err := NewIndexLister(f).List(context.Background(), "content/gigs")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestFileIndexLister_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := mocks.NewMockFetcher(ctrl)
	f.EXPECT().Get(gomock.Any(), "content/gigs/index.json").Return(ok(`{"files":["a.ics","a.json"]}`), nil)
	f.EXPECT().Get(gomock.Any(), "broken/index.json").Return(ok(`{"files":"a.ics"}`), nil)

	files, err := NewFileIndexLister(f).List(context.Background(), "content/gigs")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.ics", "a.json"}, files)

	_, err = NewFileIndexLister(f).List(context.Background(), "broken")
	assert.Error(t, err)
}

func TestFetchJSON_NonSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := mocks.NewMockFetcher(ctrl)
	f.EXPECT().Get(gomock.Any(), "a.json").Return(&domain.Response{StatusCode: http.StatusNotModified}, nil)

	_, err := FetchJSON(context.Background(), f, "a.json")
	var fetchErr *domain.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusNotModified, fetchErr.StatusCode)
}

func TestFetchText_DecodesCharset(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := mocks.NewMockFetcher(ctrl)
	f.EXPECT().Get(gomock.Any(), "a.md").Return(&domain.Response{
		StatusCode:  http.StatusOK,
		Body:        []byte{'C', 'a', 'f', 0xE9},
		ContentType: "text/markdown; charset=iso-8859-1",
	}, nil)

	text, err := FetchText(context.Background(), f, "a.md")
	require.NoError(t, err)
	assert.Equal(t, "Café", text)
}

func TestLocalSite_AutoindexListing(t *testing.T) {
	root := writeSite(t, map[string]string{
		"content/gigs/a.ics":       "BEGIN:VEVENT",
		"content/gigs/a.json":      `{"venue":"Hall"}`,
		"content/gigs/my gig.json": `{}`,
		"content/gigs/sub/x.ics":   "nested",
	})

	f, err := fetcher.NewLocalClient(root)
	require.NoError(t, err)

	hrefs, err := NewIndexLister(f).List(context.Background(), "content/gigs")
	require.NoError(t, err)
	assert.Contains(t, hrefs, "a.ics")
	assert.Contains(t, hrefs, "a.json")
	assert.Contains(t, hrefs, "sub/")
	assert.Contains(t, hrefs, "my%20gig.json")
}

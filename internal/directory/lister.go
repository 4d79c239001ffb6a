package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/quantmind-br/siteassets-go/internal/domain"
	"github.com/quantmind-br/siteassets-go/internal/utils"
)

// Listing modes accepted by NewLister
const (
	ListingAutoindex = "autoindex"
	ListingIndex     = "index"
)

// IndexFile is the file FileIndexLister reads inside a directory
const IndexFile = "index.json"

// Lister enumerates a directory and returns the raw link targets it holds.
// Callers filter and normalize the targets.
type Lister interface {
	List(ctx context.Context, dirPath string) ([]string, error)
}

// NewLister returns the lister for a listing mode; unknown modes fall back
// to autoindex parsing
func NewLister(mode string, f domain.Fetcher) Lister {
	if mode == ListingIndex {
		return NewFileIndexLister(f)
	}
	return NewIndexLister(f)
}

// IndexLister reads the HTML index page a static host serves for a directory
type IndexLister struct {
	fetcher domain.Fetcher
}

// NewIndexLister creates an autoindex lister
func NewIndexLister(f domain.Fetcher) *IndexLister {
	return &IndexLister{fetcher: f}
}

// List fetches dirPath and returns the href of every anchor on the page
func (l *IndexLister) List(ctx context.Context, dirPath string) ([]string, error) {
	resp, err := get(ctx, l.fetcher, dirPath)
	if err != nil {
		return nil, fmt.Errorf("could not access directory %s: %w", dirPath, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing for %s: %w", dirPath, err)
	}

	var hrefs []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok && href != "" {
			hrefs = append(hrefs, href)
		}
	})
	return hrefs, nil
}

// FileIndexLister reads <dir>/index.json ({"files": [...]}) for hosts
// without autoindex
type FileIndexLister struct {
	fetcher domain.Fetcher
}

// NewFileIndexLister creates an index.json lister
func NewFileIndexLister(f domain.Fetcher) *FileIndexLister {
	return &FileIndexLister{fetcher: f}
}

// List returns the files named by the directory's index.json
func (l *FileIndexLister) List(ctx context.Context, dirPath string) ([]string, error) {
	indexPath := utils.JoinAssetPath(dirPath, IndexFile)

	resp, err := get(ctx, l.fetcher, indexPath)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", indexPath, err)
	}

	var idx domain.DirectoryIndex
	if err := json.Unmarshal(trimBOM(resp.Body), &idx); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", indexPath, err)
	}
	return idx.Files, nil
}

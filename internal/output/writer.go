package output

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

	"github.com/quantmind-br/siteassets-go/internal/domain"
	"github.com/quantmind-br/siteassets-go/internal/utils"
)

// DefaultBaseDir is used when WriterOptions.BaseDir is empty
const DefaultBaseDir = "./site-data"

// ReportFile is the name of the session report under the base directory
const ReportFile = "report.json"

// ErrPathEscape indicates an artifact path that resolves outside the base directory
var ErrPathEscape = errors.New("path escapes output directory")

// Writer writes handler artifacts below a base directory
type Writer struct {
	baseDir string
	force   bool
	dryRun  bool
	logger  *utils.Logger

	mu      sync.Mutex
	written []string
	skipped []string
}

// WriterOptions contains options for the writer
type WriterOptions struct {
	BaseDir string
	Force   bool
	DryRun  bool
	Logger  *utils.Logger
}

// NewWriter creates a new output writer
func NewWriter(opts WriterOptions) *Writer {
	if opts.BaseDir == "" {
		opts.BaseDir = DefaultBaseDir
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}

	return &Writer{
		baseDir: opts.BaseDir,
		force:   opts.Force,
		dryRun:  opts.DryRun,
		logger:  opts.Logger.WithComponent("output"),
	}
}

// BaseDir returns the output directory
func (w *Writer) BaseDir() string {
	return w.baseDir
}

// Path resolves rel below the base directory
func (w *Writer) Path(rel string) (string, error) {
	path := filepath.Join(w.baseDir, filepath.FromSlash(rel))
	if filepath.IsAbs(rel) || !utils.IsWithinDir(w.baseDir, path) || path == filepath.Clean(w.baseDir) {
		return "", fmt.Errorf("%w: %s", ErrPathEscape, rel)
	}
	return path, nil
}

// WriteFile saves data at rel below the base directory.
// An existing file is kept unless the writer was created with Force.
func (w *Writer) WriteFile(ctx context.Context, rel string, data []byte) error {
	return w.write(ctx, rel, data, w.force)
}

// WriteJSON saves v as indented JSON at rel
func (w *Writer) WriteJSON(ctx context.Context, rel string, v any) error {
	data, err := marshalJSON(v)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrWriteFailed, rel, err)
	}
	return w.write(ctx, rel, data, w.force)
}

// WriteReport saves the session report as report.json, always overwriting
func (w *Writer) WriteReport(ctx context.Context, report any) error {
	data, err := marshalJSON(report)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrWriteFailed, ReportFile, err)
	}
	return w.write(ctx, ReportFile, data, true)
}

func (w *Writer) write(ctx context.Context, rel string, data []byte, overwrite bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := w.Path(rel)
	if err != nil {
		return err
	}

	if !overwrite && w.Exists(rel) {
		w.logger.Debug().Str("file", path).Msg("Artifact exists, skipping")
		w.record(&w.skipped, path)
		return nil
	}

	if w.dryRun {
		w.logger.Info().Str("file", path).Int("bytes", len(data)).Msg("Dry run: would write")
		w.record(&w.written, path)
		return nil
	}

	if err := utils.EnsureDir(path); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
	}

	w.logger.Debug().Str("file", path).Int("bytes", len(data)).Msg("Artifact written")
	w.record(&w.written, path)
	return nil
}

func (w *Writer) record(list *[]string, path string) {
	w.mu.Lock()
	*list = append(*list, path)
	w.mu.Unlock()
}

// Written returns the paths written (or, in dry-run, that would be written)
func (w *Writer) Written() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.written...)
}

// Skipped returns the paths left alone because they already existed
func (w *Writer) Skipped() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.skipped...)
}

// Reset clears the written and skipped lists
func (w *Writer) Reset() {
	w.mu.Lock()
	w.written = nil
	w.skipped = nil
	w.mu.Unlock()
}

// Exists checks if an artifact already exists
func (w *Writer) Exists(rel string) bool {
	path, err := w.Path(rel)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// EnsureBaseDir creates the base directory if it doesn't exist
func (w *Writer) EnsureBaseDir() error {
	if w.dryRun {
		return nil
	}
	return os.MkdirAll(w.baseDir, 0755)
}

// Stats returns the number and total size of files in the output directory
func (w *Writer) Stats() (int, int64, error) {
	var count int
	var size int64

	err := filepath.WalkDir(w.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		count++
		size += info.Size()
		return nil
	})

	return count, size, err
}

// Files lists the artifacts under the output directory, relative and sorted
func (w *Writer) Files() ([]string, error) {
	var files []string
	err := filepath.WalkDir(w.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(w.baseDir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	sort.Strings(files)
	return files, err
}

func marshalJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// MaxFilenameLength is the maximum length for a filename
const MaxFilenameLength = 200

// Windows reserved names
var windowsReserved = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
	"LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// invalidCharsRegex matches invalid filename characters
var invalidCharsRegex = regexp.MustCompile(`[<>:"|?*\\/]`)

// multipleSpacesRegex matches multiple consecutive spaces/dashes
var multipleSpacesRegex = regexp.MustCompile(`[-_\s]+`)

// SanitizeFilename sanitizes a string for use as a filename
func SanitizeFilename(name string) string {
	name = invalidCharsRegex.ReplaceAllString(name, "-")
	name = multipleSpacesRegex.ReplaceAllString(name, "-")

	ext := filepath.Ext(name)
	baseName := strings.Trim(strings.TrimSuffix(name, ext), "- ")
	name = baseName + ext

	upper := strings.ToUpper(name)
	if windowsReserved[strings.TrimSuffix(upper, filepath.Ext(upper))] {
		name = "_" + name
	}

	if len(name) > MaxFilenameLength {
		ext := filepath.Ext(name)
		name = name[:MaxFilenameLength-len(ext)] + ext
	}

	if name == "" || name == "." || name == ".." {
		name = "untitled"
	}

	return name
}

// AssetOutputPath maps a manifest asset path to a file under baseDir.
// Each path segment is sanitized and suffix is appended to the last one.
func AssetOutputPath(baseDir, assetPath, suffix string) string {
	assetPath = strings.Trim(filepath.ToSlash(assetPath), "/")
	if assetPath == "" {
		assetPath = "index"
	}

	parts := strings.Split(assetPath, "/")
	for i, part := range parts {
		parts[i] = SanitizeFilename(part)
	}

	return filepath.Join(baseDir, filepath.Join(parts...)+suffix)
}

// IsWithinDir reports whether target is baseDir or lies below it
func IsWithinDir(baseDir, target string) bool {
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// EnsureDir ensures the parent directory of path exists
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}

// ExpandPath expands ~ to the user's home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

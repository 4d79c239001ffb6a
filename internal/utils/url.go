package utils

import (
	"net/url"
	"path"
	"strings"
)

// ResolveURL resolves a relative reference against a base URL.
// A base without a trailing slash is treated as a directory so that
// "content/about.json" under "https://band.example/site" stays under /site/.
func ResolveURL(base, ref string) (string, error) {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}

	refURL, err := url.Parse(strings.TrimPrefix(ref, "/"))
	if err != nil {
		return "", err
	}

	return baseURL.ResolveReference(refURL).String(), nil
}

// IsAbsoluteURL checks if a URL is absolute
func IsAbsoluteURL(rawURL string) bool {
	if strings.HasPrefix(rawURL, "//") {
		return true
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.IsAbs()
}

// IsHTTPURL checks if a URL uses HTTP or HTTPS scheme
func IsHTTPURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// JoinAssetPath joins a directory asset path and a file name with a single "/"
func JoinAssetPath(dir, name string) string {
	return dir + "/" + name
}

// FileExt returns everything from the last "." of name, or "" when there is none.
// Unlike path.Ext it does not stop at slashes; callers pass bare file names.
func FileExt(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}
	return name[idx:]
}

// BaseName returns name without the extension reported by FileExt
func BaseName(name string) string {
	return strings.TrimSuffix(name, FileExt(name))
}

// LinkFilename reduces an href from a directory listing to its file name.
// Query strings and fragments are dropped and percent-encoding is undone.
func LinkFilename(href string) string {
	if idx := strings.IndexAny(href, "?#"); idx >= 0 {
		href = href[:idx]
	}

	name := path.Base("/" + href)
	if name == "/" || name == "." {
		return ""
	}

	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}

// NormalizeExtension returns ext with a leading ".", so "jpg" and ".jpg" match
func NormalizeExtension(ext string) string {
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

// HasExtension reports whether name's extension is one of allowed.
// Matching is case-sensitive.
func HasExtension(name string, allowed []string) bool {
	ext := FileExt(name)
	if ext == "" {
		return false
	}
	for _, a := range allowed {
		if NormalizeExtension(a) == ext {
			return true
		}
	}
	return false
}

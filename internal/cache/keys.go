package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"path"
	"strings"
)

// KeyPrefix constants for different cache entry kinds
const (
	PrefixAsset = "asset"
)

// GenerateKey generates a cache key from a URL.
// The key is a SHA256 hash of the normalized URL.
func GenerateKey(rawURL string) string {
	normalized := normalizeForKey(rawURL)
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:])
}

// GenerateKeyWithPrefix generates a cache key with a prefix
func GenerateKeyWithPrefix(prefix, rawURL string) string {
	return prefix + ":" + GenerateKey(rawURL)
}

// AssetKey generates the cache key for a fetched asset
func AssetKey(rawURL string) string {
	return GenerateKeyWithPrefix(PrefixAsset, rawURL)
}

// normalizeForKey normalizes a URL for consistent key generation.
// Trailing slashes are kept: "content/gigs/" (a listing) and
// "content/gigs" are different resources on a static host.
func normalizeForKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	u.Host = strings.ToLower(u.Host)

	if (u.Scheme == "http" && u.Port() == "80") ||
		(u.Scheme == "https" && u.Port() == "443") {
		u.Host = u.Hostname()
	}

	if u.Path == "" {
		u.Path = "/"
	} else {
		trailing := strings.HasSuffix(u.Path, "/")
		u.Path = path.Clean(u.Path)
		if trailing && u.Path != "/" {
			u.Path += "/"
		}
	}

	u.Fragment = ""

	return u.String()
}

package fetcher

import (
	"github.com/quantmind-br/siteassets-go/pkg/version"
)

// DefaultUserAgent identifies the loader to static hosts
var DefaultUserAgent = version.UserAgent()

// RequestHeaders returns the headers sent with every asset request.
// They mirror what a browser sends for a same-origin fetch() call.
func RequestHeaders(userAgent string) map[string]string {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return map[string]string{
		"User-Agent":      userAgent,
		"Accept":          "application/json, text/html;q=0.9, text/*;q=0.8, */*;q=0.5",
		"Accept-Language": "en-US,en;q=0.9",
		"Accept-Encoding": "gzip, deflate, br",
		"Cache-Control":   "no-cache",
		"Pragma":          "no-cache",
		"Sec-Fetch-Dest":  "empty",
		"Sec-Fetch-Mode":  "cors",
		"Sec-Fetch-Site":  "same-origin",
	}
}

package fetcher

import (
	"fmt"

	"github.com/quantmind-br/siteassets-go/internal/domain"
	"github.com/quantmind-br/siteassets-go/internal/utils"
)

// New returns the fetcher for a site root: an HTTP client for http(s)
// roots and a LocalClient for filesystem paths
func New(root string, opts ClientOptions) (domain.Fetcher, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: empty site root", domain.ErrInvalidURL)
	}

	if utils.IsHTTPURL(root) {
		opts.Root = root
		return NewClient(opts)
	}

	return NewLocalClient(utils.ExpandPath(root))
}

// Package api provides typed wrappers for the receipt backend's REST
// endpoints, with read-through caching on the two list/aggregate reads and
// cache invalidation wired into every receipt mutation.
//
// Transport errors never escape raw: every function returns a single flat
// error carrying the most specific message the backend provided.
package api

import (
	"github.com/rs/zerolog"

	"github.com/rcptscan/rcptscan/internal/cache"
	"github.com/rcptscan/rcptscan/internal/client"
)

// API bundles the HTTP client with the response cache.
type API struct {
	client *client.Client
	cache  *cache.Cache
	logger zerolog.Logger
}

// New creates the domain API over an already configured client.
func New(c *client.Client, cc *cache.Cache, logger zerolog.Logger) *API {
	return &API{client: c, cache: cc, logger: logger}
}

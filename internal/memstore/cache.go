package memstore

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/Abraxas-365/bitwork/marketplace/job"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
)

// ListingCache implements job.ListingCache in memory with the same
// generation scheme as the Redis cache. Entries do not expire.
type ListingCache struct {
	mu      sync.Mutex
	version int64
	pages   map[string]kernel.Paginated[job.Listing]
}

func NewListingCache() *ListingCache {
	return &ListingCache{pages: make(map[string]kernel.Paginated[job.Listing])}
}

func (c *ListingCache) Key(_ context.Context, filterKey string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("v%d:%s", c.version, filterKey), nil
}

func (c *ListingCache) Get(_ context.Context, key string) (*kernel.Paginated[job.Listing], bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	page, ok := c.pages[key]
	if !ok {
		return nil, false, nil
	}
	page.Items = slices.Clone(page.Items)
	return &page, true, nil
}

func (c *ListingCache) Set(_ context.Context, key string, page *kernel.Paginated[job.Listing]) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := *page
	stored.Items = slices.Clone(page.Items)
	c.pages[key] = stored
	return nil
}

// Invalidate starts a new generation and drops the old pages.
func (c *ListingCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.version++
	clear(c.pages)
	return nil
}

// Len reports how many pages are cached.
func (c *ListingCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pages)
}

package repositories

import (
	"context"
	"github.com/maxaizer/jobboard/internal/domain/models"
	"github.com/maxaizer/jobboard/internal/views"
	gocache "github.com/patrickmn/go-cache"
	"time"
)

const (
	locationsKey   = "locations"
	departmentsKey = "departments"
	divisionsKey   = "divisions"
	functionsKey   = "functions"
)

// CachedLookups serves lookup collections from memory for ttl; jobs always go
// to the wrapped client.
type CachedLookups struct {
	views.JobsAPI
	cache *gocache.Cache
}

func NewCachedLookups(client views.JobsAPI, ttl time.Duration) *CachedLookups {
	return &CachedLookups{JobsAPI: client, cache: gocache.New(ttl, 2*ttl)}
}

func (c *CachedLookups) FetchLocations(ctx context.Context) ([]models.LookupItem, error) {
	return c.get(ctx, locationsKey, c.JobsAPI.FetchLocations)
}

func (c *CachedLookups) FetchDepartments(ctx context.Context) ([]models.LookupItem, error) {
	return c.get(ctx, departmentsKey, c.JobsAPI.FetchDepartments)
}

func (c *CachedLookups) FetchDivisions(ctx context.Context) ([]models.LookupItem, error) {
	return c.get(ctx, divisionsKey, c.JobsAPI.FetchDivisions)
}

func (c *CachedLookups) FetchFunctions(ctx context.Context) ([]models.LookupItem, error) {
	return c.get(ctx, functionsKey, c.JobsAPI.FetchFunctions)
}

// Invalidate drops every cached collection.
func (c *CachedLookups) Invalidate() {
	c.cache.Flush()
}

func (c *CachedLookups) get(ctx context.Context, key string,
	fetch func(context.Context) ([]models.LookupItem, error)) ([]models.LookupItem, error) {

	if value, found := c.cache.Get(key); found {
		return value.([]models.LookupItem), nil
	}

	items, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(key, items)
	return items, nil
}

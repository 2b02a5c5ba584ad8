package cache

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vinoteca/backend/internal/domain"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// catalogKey is the single singleflight key; the cache holds exactly one
// entry ("all wines") so there is nothing else to key on.
const catalogKey = "catalog"

// snapshot is an immutable point-in-time copy of the full catalog. It is
// replaced as a unit on every successful fetch, never mutated in place, so
// readers always observe either the old or the new catalog in full.
type snapshot struct {
	wines     []domain.Wine
	fetchedAt time.Time
}

// Config holds tuning for the catalog cache
type Config struct {
	// TTL is the freshness window measured from the last successful fetch.
	TTL time.Duration
	// FetchTimeout bounds one full catalog fetch, including cold start. A
	// stuck upstream must not hang callers indefinitely.
	FetchTimeout time.Duration
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// CatalogCache serves the merged wine catalog with stale-while-revalidate
// semantics:
//
//   - fresh snapshot: returned immediately, no upstream call
//   - stale snapshot: returned immediately, at most one background refresh
//     is started; a refresh failure is logged and the stale snapshot lives on
//   - no snapshot: a synchronous fetch shared across concurrent callers; this
//     is the only case where an upstream failure reaches the caller
type CatalogCache struct {
	client       domain.CatalogClient
	ttl          time.Duration
	fetchTimeout time.Duration
	now          func() time.Time

	mu   sync.RWMutex
	snap *snapshot

	group      singleflight.Group
	refreshing atomic.Bool
}

// NewCatalogCache creates a catalog cache around the given client
func NewCatalogCache(client domain.CatalogClient, cfg Config) *CatalogCache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = 10 * time.Second
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &CatalogCache{
		client:       client,
		ttl:          ttl,
		fetchTimeout: fetchTimeout,
		now:          now,
	}
}

// GetAll returns the full catalog. Callers must treat the returned slice as
// read-only; it is shared between all concurrent readers of one snapshot.
func (c *CatalogCache) GetAll(ctx context.Context) ([]domain.Wine, error) {
	if snap := c.current(); snap != nil {
		if c.now().Sub(snap.fetchedAt) < c.ttl {
			return snap.wines, nil
		}
		c.refreshInBackground()
		return snap.wines, nil
	}

	// Cold start: concurrent callers share one synchronous fetch. The fetch
	// runs under the first caller's context plus the fetch timeout.
	v, err, _ := c.group.Do(catalogKey, func() (interface{}, error) {
		// A caller that lost the singleflight race may arrive here after the
		// winner already stored a snapshot.
		if snap := c.current(); snap != nil {
			return snap.wines, nil
		}
		wines, err := c.fetchAll(ctx)
		if err != nil {
			return nil, err
		}
		c.store(wines)
		return wines, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Wine), nil
}

// Warm populates the cache at startup. Failure is not fatal; the next
// GetAll retries on demand.
func (c *CatalogCache) Warm(ctx context.Context) error {
	wines, err := c.GetAll(ctx)
	if err != nil {
		return err
	}
	log.Printf("[cache] warmed with %d wines", len(wines))
	return nil
}

// Age returns how long ago the current snapshot was fetched, and false when
// no snapshot exists yet.
func (c *CatalogCache) Age() (time.Duration, bool) {
	snap := c.current()
	if snap == nil {
		return 0, false
	}
	return c.now().Sub(snap.fetchedAt), true
}

func (c *CatalogCache) current() *snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

func (c *CatalogCache) store(wines []domain.Wine) {
	c.mu.Lock()
	c.snap = &snapshot{wines: wines, fetchedAt: c.now()}
	c.mu.Unlock()
}

// refreshInBackground starts one background fetch unless one is already in
// flight. Readers never wait on it; they keep getting the stale snapshot
// until the refresh succeeds.
func (c *CatalogCache) refreshInBackground() {
	if !c.refreshing.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.refreshing.Store(false)

		// Detached from the triggering request; the refresh outlives it.
		ctx, cancel := context.WithTimeout(context.Background(), c.fetchTimeout)
		defer cancel()

		wines, err := c.fetchAll(ctx)
		if err != nil {
			log.Printf("[cache] background refresh failed, keeping stale snapshot: %v", err)
			return
		}
		c.store(wines)
		log.Printf("[cache] refreshed snapshot: %d wines", len(wines))
	}()
}

// fetchAll fetches every category concurrently and concatenates the results
// in fixed category order. Any single category failure fails the whole fetch;
// a half-fetched catalog is never stored.
func (c *CatalogCache) fetchAll(ctx context.Context) ([]domain.Wine, error) {
	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	buckets := make([][]domain.Wine, len(domain.Styles))
	g, ctx := errgroup.WithContext(ctx)
	for i, style := range domain.Styles {
		i, style := i, style
		g.Go(func() error {
			wines, err := c.client.FetchCategory(ctx, style)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", style, err)
			}
			buckets[i] = wines
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]domain.Wine, 0)
	for _, bucket := range buckets {
		merged = append(merged, bucket...)
	}
	return merged, nil
}

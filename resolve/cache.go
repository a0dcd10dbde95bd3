package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/ristretto/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"qrender/asset"
)

// Cached is read-through cache in front of another Lookuper. Found assets
// are cached, absence is always asked again. Concurrent requests for the
// same identifier share a single lookup.
type Cached struct {
	next  Lookuper
	cache *ristretto.Cache[string, asset.Asset]
	group singleflight.Group
	log   *zap.Logger
}

// NewCached wraps next with cache holding up to maxEntries assets.
func NewCached(next Lookuper, maxEntries int64, log *zap.Logger) (*Cached, error) {
	if maxEntries <= 0 {
		return nil, fmt.Errorf("cache size must be positive, got %d", maxEntries)
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, asset.Asset]{
		NumCounters:        maxEntries * 10,
		MaxCost:            maxEntries,
		BufferItems:        64,
		// cost is number of entries
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create asset cache: %w", err)
	}
	return &Cached{next: next, cache: cache, log: log}, nil
}

// Resolve returns cached asset or asks wrapped resolver. Shared lookup is
// detached from the caller which started it, every caller waits on its own
// context only.
func (c *Cached) Resolve(ctx context.Context, id string) (asset.Asset, error) {
	if a, ok := c.cache.Get(id); ok {
		return a, nil
	}
	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(id, func() (any, error) {
		a, err := c.next.Resolve(detached, id)
		if err != nil {
			return nil, err
		}
		c.cache.Set(id, a, 1)
		return a, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			if isContextErr(res.Err) && ctx.Err() == nil {
				// wrapped resolver gave up on its own, this caller is still alive
				c.log.Debug("Shared asset lookup interrupted, retrying", zap.String("id", id), zap.Error(res.Err))
				return c.next.Resolve(ctx, id)
			}
			return nil, res.Err
		}
		if res.Shared {
			c.log.Debug("Asset lookup shared", zap.String("id", id))
		}
		return res.Val.(asset.Asset), nil
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Wait blocks until all pending cache writes are applied.
func (c *Cached) Wait() {
	c.cache.Wait()
}

// Close releases cache resources.
func (c *Cached) Close() {
	c.cache.Close()
}

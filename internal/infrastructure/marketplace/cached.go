package marketplace

import (
	"context"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"

	"pricewatch/pkg/logx"
)

const cacheCleanupFactor = 2

// Cached memoises found prices per URL. Errors and absent prices are never
// stored, so a failing page is retried on the next lookup.
type Cached struct {
	next  PriceSource
	cache *cache.Cache
}

func NewCached(next PriceSource, ttl time.Duration) *Cached {
	return &Cached{
		next:  next,
		cache: cache.New(ttl, cacheCleanupFactor*ttl),
	}
}

func (c *Cached) FetchPrice(ctx context.Context, url string) (int64, bool, error) {
	if v, ok := c.cache.Get(url); ok {
		price := v.(int64) //nolint:forcetypeassert

		logger(ctx).Debug("price cache hit", slog.String(logx.FieldURL, url), slog.Int64(logx.FieldPrice, price))

		return price, true, nil
	}

	price, found, err := c.next.FetchPrice(ctx, url)
	if err != nil || !found {
		return price, found, err
	}

	c.cache.SetDefault(url, price)

	return price, true, nil
}

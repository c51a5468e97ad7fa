package checkwx

import (
	"context"
	"time"

	"github.com/couchcryptid/airfield-weather-kiosk/internal/domain"
	"github.com/couchcryptid/airfield-weather-kiosk/internal/observability"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CachedProvider wraps a WeatherProvider with a size-bounded TTL cache so
// frequent refreshes do not exhaust the API quota.
type CachedProvider struct {
	inner   domain.WeatherProvider
	cache   *expirable.LRU[string, string]
	metrics *observability.Metrics
}

// NewCachedProvider creates a cache decorator around a provider.
func NewCachedProvider(inner domain.WeatherProvider, size int, ttl time.Duration, metrics *observability.Metrics) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		cache:   expirable.NewLRU[string, string](size, nil, ttl),
		metrics: metrics,
	}
}

func (c *CachedProvider) FetchMETAR(ctx context.Context, icao string) (string, error) {
	return c.fetch(ctx, KindMETAR, icao, c.inner.FetchMETAR)
}

func (c *CachedProvider) FetchTAF(ctx context.Context, icao string) (string, error) {
	return c.fetch(ctx, KindTAF, icao, c.inner.FetchTAF)
}

// Purge drops every cached report.
func (c *CachedProvider) Purge() {
	c.cache.Purge()
}

func (c *CachedProvider) fetch(ctx context.Context, kind, icao string, next func(context.Context, string) (string, error)) (string, error) {
	key := kind + ":" + icao
	if raw, ok := c.cache.Get(key); ok {
		c.metrics.ProviderCache.WithLabelValues(kind, "hit").Inc()
		return raw, nil
	}
	c.metrics.ProviderCache.WithLabelValues(kind, "miss").Inc()

	raw, err := next(ctx, icao)
	if err != nil {
		return "", err
	}
	// Empty results are retried on the next fetch.
	if raw != "" {
		c.cache.Add(key, raw)
	}
	return raw, nil
}

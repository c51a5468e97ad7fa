package checkwx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/couchcryptid/airfield-weather-kiosk/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	metar      string
	taf        string
	err        error
	metarCalls int
	tafCalls   int
}

func (p *countingProvider) FetchMETAR(_ context.Context, _ string) (string, error) {
	p.metarCalls++
	return p.metar, p.err
}

func (p *countingProvider) FetchTAF(_ context.Context, _ string) (string, error) {
	p.tafCalls++
	return p.taf, p.err
}

func TestCachedProvider_CachesHits(t *testing.T) {
	inner := &countingProvider{metar: testMETAR, taf: testTAF}
	metrics := observability.NewMetricsForTesting()
	c := NewCachedProvider(inner, 16, time.Minute, metrics)
	ctx := context.Background()

	for range 3 {
		raw, err := c.FetchMETAR(ctx, "ESMK")
		require.NoError(t, err)
		assert.Equal(t, testMETAR, raw)
	}
	raw, err := c.FetchTAF(ctx, "ESMK")
	require.NoError(t, err)
	assert.Equal(t, testTAF, raw)

	assert.Equal(t, 1, inner.metarCalls)
	assert.Equal(t, 1, inner.tafCalls, "METAR and TAF are cached under separate keys")
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.ProviderCache.WithLabelValues(KindMETAR, "hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ProviderCache.WithLabelValues(KindMETAR, "miss")), 0)
}

func TestCachedProvider_StationsAreSeparate(t *testing.T) {
	inner := &countingProvider{metar: testMETAR}
	c := NewCachedProvider(inner, 16, time.Minute, observability.NewMetricsForTesting())

	_, _ = c.FetchMETAR(context.Background(), "ESMK")
	_, _ = c.FetchMETAR(context.Background(), "ESMS")
	assert.Equal(t, 2, inner.metarCalls)
}

func TestCachedProvider_DoesNotCacheEmptyOrErrors(t *testing.T) {
	inner := &countingProvider{}
	c := NewCachedProvider(inner, 16, time.Minute, observability.NewMetricsForTesting())
	ctx := context.Background()

	raw, err := c.FetchMETAR(ctx, "ESMK")
	require.NoError(t, err)
	assert.Empty(t, raw)

	inner.err = errors.New("quota exceeded")
	_, err = c.FetchMETAR(ctx, "ESMK")
	require.Error(t, err)

	inner.err = nil
	inner.metar = testMETAR
	raw, err = c.FetchMETAR(ctx, "ESMK")
	require.NoError(t, err)
	assert.Equal(t, testMETAR, raw)
	assert.Equal(t, 3, inner.metarCalls)
}

func TestCachedProvider_Expiry(t *testing.T) {
	inner := &countingProvider{metar: testMETAR}
	c := NewCachedProvider(inner, 16, 20*time.Millisecond, observability.NewMetricsForTesting())

	_, _ = c.FetchMETAR(context.Background(), "ESMK")
	time.Sleep(60 * time.Millisecond)
	_, _ = c.FetchMETAR(context.Background(), "ESMK")
	assert.Equal(t, 2, inner.metarCalls)
}

func TestCachedProvider_Purge(t *testing.T) {
	inner := &countingProvider{metar: testMETAR}
	c := NewCachedProvider(inner, 16, time.Minute, observability.NewMetricsForTesting())

	_, _ = c.FetchMETAR(context.Background(), "ESMK")
	c.Purge()
	_, _ = c.FetchMETAR(context.Background(), "ESMK")
	assert.Equal(t, 2, inner.metarCalls)
}

func TestCachedProvider_EvictsLeastRecentlyUsed(t *testing.T) {
	inner := &countingProvider{metar: testMETAR}
	c := NewCachedProvider(inner, 2, time.Minute, observability.NewMetricsForTesting())
	ctx := context.Background()

	_, _ = c.FetchMETAR(ctx, "ESMK")
	_, _ = c.FetchMETAR(ctx, "ESMS")
	_, _ = c.FetchMETAR(ctx, "ESSA") // evicts ESMK
	_, _ = c.FetchMETAR(ctx, "ESMK")
	assert.Equal(t, 4, inner.metarCalls)
}

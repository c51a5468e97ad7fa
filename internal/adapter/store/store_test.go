package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/couchcryptid/airfield-weather-kiosk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, time.October, 18, 11, 50, 0, 0, time.UTC)

func snapshot(station string, fetchedAt time.Time) domain.Snapshot {
	return domain.Snapshot{ID: station + fetchedAt.String(), Station: station, FetchedAt: fetchedAt}
}

func TestStore_LatestAndStations(t *testing.T) {
	s := New()
	_, err := s.Latest("ESMK")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, s.Stations())

	require.NoError(t, s.LoadBatch(context.Background(), []domain.Snapshot{
		snapshot("ESMS", baseTime),
		snapshot("ESMK", baseTime),
	}))

	got, err := s.Latest("ESMK")
	require.NoError(t, err)
	assert.Equal(t, "ESMK", got.Station)
	assert.Equal(t, []string{"ESMK", "ESMS"}, s.Stations())
}

func TestStore_NewerReplacesOlder(t *testing.T) {
	s := New()
	ctx := context.Background()

	newer := snapshot("ESMK", baseTime.Add(time.Hour))
	require.NoError(t, s.LoadBatch(ctx, []domain.Snapshot{snapshot("ESMK", baseTime)}))
	require.NoError(t, s.LoadBatch(ctx, []domain.Snapshot{newer}))
	require.NoError(t, s.LoadBatch(ctx, []domain.Snapshot{snapshot("ESMK", baseTime.Add(30*time.Minute))}))

	got, err := s.Latest("ESMK")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.LoadBatch(context.Background(), []domain.Snapshot{snapshot("ESMK", baseTime.Add(time.Duration(i)*time.Minute))})
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Latest("ESMK")
			_ = s.Stations()
		}()
	}
	wg.Wait()

	got, err := s.Latest("ESMK")
	require.NoError(t, err)
	assert.Equal(t, baseTime.Add(19*time.Minute), got.FetchedAt)
}

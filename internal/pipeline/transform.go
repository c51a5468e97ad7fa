package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/airfield-weather-kiosk/internal/domain"
	"github.com/couchcryptid/airfield-weather-kiosk/internal/observability"
)

// SnapshotTransformer implements Transformer by decoding the observation's METAR.
type SnapshotTransformer struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTransformer creates a SnapshotTransformer.
func NewTransformer(logger *slog.Logger, metrics *observability.Metrics) *SnapshotTransformer {
	return &SnapshotTransformer{
		logger:  logger,
		metrics: metrics,
	}
}

func (t *SnapshotTransformer) Transform(_ context.Context, raw domain.RawObservation) (domain.Snapshot, error) {
	snap, err := domain.BuildSnapshot(raw)
	if err != nil {
		return domain.Snapshot{}, err
	}

	if n := len(snap.METAR.GroupsUnmatched); n > 0 {
		t.metrics.UnmatchedGroups.Add(float64(n))
	}
	t.logger.Debug("metar decoded",
		"station", snap.Station,
		"flight_category", snap.METAR.FlightCategory,
		"groups_matched", snap.METAR.GroupsMatched,
		"groups_unmatched", snap.METAR.GroupsUnmatched,
	)
	return snap, nil
}

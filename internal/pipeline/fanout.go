package pipeline

import (
	"context"
	"errors"

	"github.com/couchcryptid/airfield-weather-kiosk/internal/domain"
)

// FanOut hands every batch to each loader in order. All loaders run even when
// one fails; their errors are joined.
type FanOut []BatchLoader

func (f FanOut) LoadBatch(ctx context.Context, snapshots []domain.Snapshot) error {
	var errs []error
	for _, l := range f {
		if err := l.LoadBatch(ctx, snapshots); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

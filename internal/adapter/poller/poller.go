package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/airfield-weather-kiosk/internal/domain"
	"github.com/jonboulle/clockwork"
)

// ErrClosed is returned by ExtractBatch after Close.
var ErrClosed = errors.New("poller closed")

// Poller implements pipeline.BatchExtractor by fetching the configured
// stations from a weather provider once per refresh interval. It is not safe
// for concurrent ExtractBatch calls; the pipeline calls it from one goroutine.
// Close may be called from any goroutine.
type Poller struct {
	provider domain.WeatherProvider
	stations []string
	interval time.Duration
	source   string
	clock    clockwork.Clock
	logger   *slog.Logger

	mu      sync.Mutex // guards ticker and closed
	ticker  clockwork.Ticker
	closed  bool
	pending []string
}

// Option configures a Poller.
type Option func(*Poller)

// WithClock replaces the real clock, for tests.
func WithClock(c clockwork.Clock) Option {
	return func(p *Poller) { p.clock = c }
}

// New creates a Poller. source names the provider in published snapshots.
func New(provider domain.WeatherProvider, stations []string, interval time.Duration, source string, logger *slog.Logger, opts ...Option) *Poller {
	p := &Poller{
		provider: provider,
		stations: stations,
		interval: interval,
		source:   source,
		clock:    clockwork.NewRealClock(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ExtractBatch returns observations for up to batchSize stations. The first
// round starts immediately; later rounds wait for the next refresh tick.
// Stations left over from a round are returned on the following calls
// without waiting.
func (p *Poller) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawObservation, error) {
	if len(p.pending) == 0 {
		if err := p.waitForRound(ctx); err != nil {
			return nil, err
		}
		p.pending = append(p.pending, p.stations...)
	}

	n := len(p.pending)
	if batchSize > 0 && batchSize < n {
		n = batchSize
	}
	batch := p.pending[:n]
	p.pending = p.pending[n:]

	return p.fetchAll(ctx, batch)
}

// Close stops the refresh ticker. Later ExtractBatch calls return ErrClosed.
func (p *Poller) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	if p.ticker != nil {
		p.ticker.Stop()
	}
	return nil
}

func (p *Poller) waitForRound(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	if p.ticker == nil {
		p.ticker = p.clock.NewTicker(p.interval)
		p.mu.Unlock()
		return nil
	}
	ticker := p.ticker
	p.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-ticker.Chan():
		return nil
	}
}

// fetchAll fails only when every station's METAR request failed.
func (p *Poller) fetchAll(ctx context.Context, stations []string) ([]domain.RawObservation, error) {
	observations := make([]domain.RawObservation, 0, len(stations))
	var lastErr error
	failed := 0

	for _, station := range stations {
		obs, err := p.fetch(ctx, station)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.logger.Warn("fetch metar failed", "station", station, "error", err)
			failed++
			lastErr = err
			continue
		}
		if obs.METAR == "" {
			p.logger.Warn("station reported no metar", "station", station)
			continue
		}
		observations = append(observations, obs)
	}

	if failed > 0 && failed == len(stations) {
		return nil, fmt.Errorf("fetch metar for %d stations: %w", failed, lastErr)
	}
	return observations, nil
}

func (p *Poller) fetch(ctx context.Context, station string) (domain.RawObservation, error) {
	metar, err := p.provider.FetchMETAR(ctx, station)
	if err != nil {
		return domain.RawObservation{}, fmt.Errorf("fetch metar %s: %w", station, err)
	}

	taf, err := p.provider.FetchTAF(ctx, station)
	if err != nil {
		// The kiosk still shows current conditions without a forecast.
		p.logger.Warn("fetch taf failed", "station", station, "error", err)
		taf = ""
	}

	return domain.RawObservation{
		Station:   station,
		METAR:     metar,
		TAF:       taf,
		Source:    p.source,
		FetchedAt: p.clock.Now().UTC(),
	}, nil
}

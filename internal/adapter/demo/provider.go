// Package demo serves a fixed Kristianstad report so the kiosk can run
// without a CheckWX API key.
package demo

import (
	"context"
	"strings"
)

const (
	// Station is the only station the demo provider reports for.
	Station = "ESMK"
	// METAR is the demo observation.
	METAR = "ESMK 181150Z 27012KT 9999 FEW040 SCT100 18/08 Q1018"
	// TAF is the demo forecast.
	TAF = "TAF ESMK 181100Z 1812/1912 28010KT 9999 FEW040 SCT100 TEMPO 1815/1820 SHRA BKN030"
)

// Provider implements domain.WeatherProvider with static reports.
type Provider struct{}

// NewProvider creates a demo provider.
func NewProvider() *Provider {
	return &Provider{}
}

// FetchMETAR returns the demo METAR for the home station and nothing for
// any other station.
func (p *Provider) FetchMETAR(ctx context.Context, icao string) (string, error) {
	return p.fetch(ctx, icao, METAR)
}

// FetchTAF returns the demo TAF for the home station.
func (p *Provider) FetchTAF(ctx context.Context, icao string) (string, error) {
	return p.fetch(ctx, icao, TAF)
}

func (p *Provider) fetch(ctx context.Context, icao, report string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !strings.EqualFold(icao, Station) {
		return "", nil
	}
	return report, nil
}

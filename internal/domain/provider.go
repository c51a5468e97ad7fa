package domain

import "context"

// WeatherProvider fetches raw report text for an ICAO station.
type WeatherProvider interface {
	// FetchMETAR returns the latest raw METAR, or "" when the station has none.
	FetchMETAR(ctx context.Context, icao string) (string, error)

	// FetchTAF returns the latest raw TAF, or "" when the station has none.
	FetchTAF(ctx context.Context, icao string) (string, error)
}

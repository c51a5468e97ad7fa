package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNoMETAR is returned when an observation carries no METAR text to decode.
var ErrNoMETAR = errors.New("observation has no METAR")

// snapshotNamespace scopes snapshot IDs so they never collide with other
// name-based UUIDs.
var snapshotNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:airfield-weather-kiosk:snapshot"))

// RawObservation is one provider fetch for a station.
type RawObservation struct {
	Station   string
	METAR     string
	TAF       string
	Source    string
	FetchedAt time.Time
}

// Snapshot is the decoded weather for a station at one point in time. It is
// what the kiosk display and the Kafka sink receive.
type Snapshot struct {
	ID          string    `json:"id"`
	Station     string    `json:"station"`
	METAR       Report    `json:"metar"`
	RawMETAR    string    `json:"metar_raw"`
	RawTAF      string    `json:"taf_raw,omitempty"`
	Source      string    `json:"source"`
	FetchedAt   time.Time `json:"fetched_at"`
	ProcessedAt time.Time `json:"processed_at"`
}

// BuildSnapshot decodes an observation's METAR into a snapshot. The TAF is
// passed through untouched.
func BuildSnapshot(obs RawObservation) (Snapshot, error) {
	raw := strings.TrimSpace(obs.METAR)
	if raw == "" {
		return Snapshot{}, ErrNoMETAR
	}

	report := Decode(raw)
	station := obs.Station
	if station == "" {
		station = report.Station
	}

	return Snapshot{
		ID:          SnapshotID(station, raw),
		Station:     station,
		METAR:       report,
		RawMETAR:    raw,
		RawTAF:      strings.TrimSpace(obs.TAF),
		Source:      obs.Source,
		FetchedAt:   obs.FetchedAt,
		ProcessedAt: clock.Now().UTC(),
	}, nil
}

// SnapshotID derives a stable ID from the station and raw report, so the same
// METAR fetched twice is recognizably the same observation downstream.
func SnapshotID(station, rawMETAR string) string {
	return uuid.NewSHA1(snapshotNamespace, []byte(station+"|"+rawMETAR)).String()
}

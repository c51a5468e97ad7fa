package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"regexp"
	"strings"

	"github.com/couchcryptid/airfield-weather-kiosk/internal/adapter/store"
	"github.com/couchcryptid/airfield-weather-kiosk/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	configMaxAge  = "public, max-age=3600"
	weatherMaxAge = "public, max-age=120"

	// maxDecodeBody bounds POST /api/metar/decode; a METAR is well under 1 KB.
	maxDecodeBody = 8 << 10
)

var icaoRe = regexp.MustCompile(`^[A-Z]{4}$`)

// weatherResponse is a snapshot with display helpers the kiosk needs.
type weatherResponse struct {
	domain.Snapshot
	WindCompass string `json:"wind_compass,omitempty"`
}

// decodeResponse is a decoded report with the same helpers.
type decodeResponse struct {
	domain.Report
	WindCompass string `json:"wind_compass,omitempty"`
}

type decodeRequest struct {
	Raw string `json:"raw"`
}

func windCompass(r domain.Report) string {
	if r.Wind == nil {
		return ""
	}
	return domain.CompassPoint(r.Wind.Direction)
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", configMaxAge)
	writeJSON(w, http.StatusOK, s.airfield)
}

func (s *Server) handleStations(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"stations": s.snapshots.Stations()})
}

// handleWeather serves the home station. Before the first poll completes it
// answers 503 so the kiosk keeps its loading state.
func (s *Server) handleWeather(w http.ResponseWriter, _ *http.Request) {
	snap, err := s.snapshots.Latest(s.airfield.ICAO)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusServiceUnavailable, "weather data not available yet")
		return
	}
	if err != nil {
		s.logger.Error("read snapshot failed", "station", s.airfield.ICAO, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.writeSnapshot(w, snap)
}

func (s *Server) handleStationWeather(w http.ResponseWriter, r *http.Request) {
	icao := strings.ToUpper(chi.URLParam(r, "icao"))
	if !icaoRe.MatchString(icao) {
		writeError(w, http.StatusBadRequest, "invalid ICAO code")
		return
	}

	snap, err := s.snapshots.Latest(icao)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no weather for "+icao)
		return
	}
	if err != nil {
		s.logger.Error("read snapshot failed", "station", icao, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.writeSnapshot(w, snap)
}

func (s *Server) writeSnapshot(w http.ResponseWriter, snap domain.Snapshot) {
	w.Header().Set("Cache-Control", weatherMaxAge)
	writeJSON(w, http.StatusOK, weatherResponse{
		Snapshot:    snap,
		WindCompass: windCompass(snap.METAR),
	})
}

// handleDecode decodes a METAR posted as JSON {"raw": "..."} or as plain text.
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDecodeBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "read request body")
		return
	}

	raw := string(body)
	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "application/json" {
		var req decodeRequest
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		raw = req.Raw
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		writeError(w, http.StatusBadRequest, "empty METAR")
		return
	}

	report := domain.Decode(raw)
	s.logger.Debug("metar decoded on request",
		"request_id", middleware.GetReqID(r.Context()),
		"station", report.Station,
		"groups_unmatched", len(report.GroupsUnmatched),
	)
	writeJSON(w, http.StatusOK, decodeResponse{Report: report, WindCompass: windCompass(report)})
}

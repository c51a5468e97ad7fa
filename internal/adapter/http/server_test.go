package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "github.com/couchcryptid/airfield-weather-kiosk/internal/adapter/http"
	"github.com/couchcryptid/airfield-weather-kiosk/internal/adapter/store"
	"github.com/couchcryptid/airfield-weather-kiosk/internal/config"
	"github.com/couchcryptid/airfield-weather-kiosk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMETAR = "ESMK 181150Z 27012KT 9999 FEW040 SCT100 18/08 Q1018"

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

func newTestServer(readyErr error, snaps ...domain.Snapshot) *httpadapter.Server {
	st := store.New()
	if len(snaps) > 0 {
		if err := st.LoadBatch(context.Background(), snaps); err != nil {
			panic(err)
		}
	}
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, st, config.DefaultAirfield(), slog.Default())
}

func testSnapshot(t *testing.T, station, metar string) domain.Snapshot {
	t.Helper()
	snap, err := domain.BuildSnapshot(domain.RawObservation{
		Station:   station,
		METAR:     metar,
		TAF:       "TAF " + station + " 181100Z 1812/1912 28010KT 9999 FEW040",
		Source:    "demo",
		FetchedAt: time.Date(2026, 10, 18, 11, 52, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return snap
}

func serve(srv *httpadapter.Server, method, target, contentType, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthzReturns200(t *testing.T) {
	rec := serve(newTestServer(nil), http.MethodGet, "/healthz", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeBody(t, rec)["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := serve(newTestServer(nil), http.MethodGet, "/readyz", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", decodeBody(t, rec)["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := serve(newTestServer(fmt.Errorf("not ready yet")), http.MethodGet, "/readyz", "", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "not ready yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := serve(newTestServer(nil), http.MethodGet, "/metrics", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestConfigEndpoint(t *testing.T) {
	rec := serve(newTestServer(nil), http.MethodGet, "/api/config", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
	assert.JSONEq(t,
		`{"icao":"ESMK","name":"Kristianstad","location":{"lat":55.92,"lon":14.08,"timezone":"Europe/Stockholm"}}`,
		rec.Body.String())
}

func TestWeatherEndpoint_NoDataYet(t *testing.T) {
	rec := serve(newTestServer(nil), http.MethodGet, "/api/weather", "", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotEmpty(t, decodeBody(t, rec)["error"])
}

func TestWeatherEndpoint_HomeStation(t *testing.T) {
	srv := newTestServer(nil, testSnapshot(t, "ESMK", testMETAR))
	rec := serve(srv, http.MethodGet, "/api/weather", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=120", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeBody(t, rec)
	assert.Equal(t, "ESMK", body["station"])
	assert.Equal(t, testMETAR, body["metar_raw"])
	assert.Equal(t, "W", body["wind_compass"])
	assert.Equal(t, "demo", body["source"])

	metar, ok := body["metar"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "VFR", metar["flight_category"])
	assert.Equal(t, "10+ km", metar["visibility"])
}

func TestStationWeatherEndpoint(t *testing.T) {
	srv := newTestServer(nil,
		testSnapshot(t, "ESMK", testMETAR),
		testSnapshot(t, "ESMS", "ESMS 181150Z VRB02KT 0800 FG VV002 09/09 Q1021"),
	)

	t.Run("known station, lower-case path", func(t *testing.T) {
		rec := serve(srv, http.MethodGet, "/api/weather/esms", "", "")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, "ESMS", body["station"])
		assert.Equal(t, "Variable", body["wind_compass"])
		assert.Equal(t, "LIFR", body["metar"].(map[string]any)["flight_category"])
	})

	t.Run("unknown station", func(t *testing.T) {
		rec := serve(srv, http.MethodGet, "/api/weather/ESSA", "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid code", func(t *testing.T) {
		rec := serve(srv, http.MethodGet, "/api/weather/ES1", "", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestStationsEndpoint(t *testing.T) {
	srv := newTestServer(nil,
		testSnapshot(t, "ESMS", "ESMS 181150Z 24008KT 9999 15/09 Q1017"),
		testSnapshot(t, "ESMK", testMETAR),
	)
	rec := serve(srv, http.MethodGet, "/api/stations", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"stations":["ESMK","ESMS"]}`, rec.Body.String())
}

func TestDecodeEndpoint(t *testing.T) {
	srv := newTestServer(nil)

	t.Run("json body", func(t *testing.T) {
		rec := serve(srv, http.MethodPost, "/api/metar/decode", "application/json; charset=utf-8",
			`{"raw":"ESMK 181150Z 27012KT 9999 BKN005 18/08 Q1018"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, "IFR", body["flight_category"])
		assert.InDelta(t, 500, body["ceiling_ft"], 0)
		assert.Equal(t, "W", body["wind_compass"])
	})

	t.Run("plain text body", func(t *testing.T) {
		rec := serve(srv, http.MethodPost, "/api/metar/decode", "text/plain", testMETAR+"\n")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, "ESMK", body["station"])
		assert.Equal(t, testMETAR, body["raw"])
	})

	t.Run("unmatched groups are reported", func(t *testing.T) {
		rec := serve(srv, http.MethodPost, "/api/metar/decode", "text/plain", "ESMK 181150Z CALM WINDS")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []any{"CALM", "WINDS"}, decodeBody(t, rec)["groups_unmatched"])
	})

	t.Run("empty body", func(t *testing.T) {
		rec := serve(srv, http.MethodPost, "/api/metar/decode", "text/plain", "   ")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty raw field", func(t *testing.T) {
		rec := serve(srv, http.MethodPost, "/api/metar/decode", "application/json", `{"raw":""}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid json", func(t *testing.T) {
		rec := serve(srv, http.MethodPost, "/api/metar/decode", "application/json", `{"raw":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("body too large", func(t *testing.T) {
		rec := serve(srv, http.MethodPost, "/api/metar/decode", "text/plain", strings.Repeat("A", 9<<10))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("unreadable body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/metar/decode", failingReader{})
		req.Header.Set("Content-Type", "text/plain")
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		rec := serve(srv, http.MethodGet, "/api/metar/decode", "", "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

package checkwx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/airfield-weather-kiosk/internal/observability"
)

// Report kinds, used in URLs, cache keys and metric labels.
const (
	KindMETAR = "metar"
	KindTAF   = "taf"
)

// Client implements domain.WeatherProvider using the CheckWX API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a CheckWX client.
func NewClient(apiKey, baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: metrics,
		logger:  logger,
	}
}

// FetchMETAR returns the latest raw METAR for the station.
func (c *Client) FetchMETAR(ctx context.Context, icao string) (string, error) {
	return c.fetch(ctx, KindMETAR, icao)
}

// FetchTAF returns the latest raw TAF for the station.
func (c *Client) FetchTAF(ctx context.Context, icao string) (string, error) {
	return c.fetch(ctx, KindTAF, icao)
}

func (c *Client) fetch(ctx context.Context, kind, icao string) (string, error) {
	start := time.Now()
	raw, err := c.doRequest(ctx, kind, icao)
	c.metrics.ProviderAPIDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.ProviderRequests.WithLabelValues(kind, "error").Inc()
		return "", err
	case raw == "":
		c.metrics.ProviderRequests.WithLabelValues(kind, "empty").Inc()
		c.logger.Debug("checkwx returned no report", "kind", kind, "station", icao)
	default:
		c.metrics.ProviderRequests.WithLabelValues(kind, "success").Inc()
	}
	return raw, nil
}

func (c *Client) doRequest(ctx context.Context, kind, icao string) (string, error) {
	u := fmt.Sprintf("%s/%s/%s/decoded", c.baseURL, kind, url.PathEscape(icao))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s request for %s: %w", kind, icao, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("checkwx API error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var cwx response
	if err := json.NewDecoder(resp.Body).Decode(&cwx); err != nil {
		return "", fmt.Errorf("decode %s response: %w", kind, err)
	}
	if len(cwx.Data) == 0 {
		return "", nil
	}
	return strings.TrimSpace(cwx.Data[0].RawText), nil
}

// CheckWX API response types.

type response struct {
	Results int     `json:"results"`
	Data    []entry `json:"data"`
}

// entry is one report. The plain endpoints return bare strings, the decoded
// endpoints objects carrying raw_text; both are accepted.
type entry struct {
	RawText string `json:"raw_text"`
}

func (e *entry) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		e.RawText = s
		return nil
	}

	var obj struct {
		RawText *string `json:"raw_text"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.RawText == nil {
		return errors.New("report entry has no raw_text")
	}
	e.RawText = *obj.RawText
	return nil
}

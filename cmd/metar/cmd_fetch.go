package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/couchcryptid/airfield-weather-kiosk/internal/adapter/checkwx"
	"github.com/couchcryptid/airfield-weather-kiosk/internal/adapter/demo"
	"github.com/couchcryptid/airfield-weather-kiosk/internal/config"
	"github.com/couchcryptid/airfield-weather-kiosk/internal/domain"
	"github.com/couchcryptid/airfield-weather-kiosk/internal/observability"
	"github.com/spf13/cobra"
)

var fetchTAF bool

var fetchCmd = &cobra.Command{
	Use:   "fetch [ICAO]",
	Short: "Fetch and decode the latest METAR for a station",
	Long: `Fetch the latest METAR from CheckWX using CHECKWX_API_KEY and decode it.
Without a key the demo report is used. The station defaults to AIRFIELD_ICAO.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().BoolVar(&fetchTAF, "taf", false, "also print the raw TAF")
	fetchCmd.Flags().BoolVar(&decodeJSON, "json", false, "print the decoded report as JSON")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	station := cfg.Airfield.ICAO
	if len(args) == 1 {
		station = strings.ToUpper(args[0])
	}

	var provider domain.WeatherProvider = demo.NewProvider()
	if !cfg.DemoMode() {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		provider = checkwx.NewClient(cfg.CheckWXAPIKey, cfg.CheckWXBaseURL, cfg.CheckWXTimeout,
			observability.NewMetrics(), logger)
	}

	raw, err := provider.FetchMETAR(cmd.Context(), station)
	if err != nil {
		return err
	}
	if raw == "" {
		return fmt.Errorf("no METAR available for %s", station)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, raw)
	if err := printReport(out, domain.Decode(raw), decodeJSON); err != nil {
		return err
	}

	if fetchTAF {
		taf, err := provider.FetchTAF(cmd.Context(), station)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, orDash(taf))
	}
	return nil
}

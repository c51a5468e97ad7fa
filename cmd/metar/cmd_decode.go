package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/airfield-weather-kiosk/internal/domain"
	"github.com/spf13/cobra"
)

var decodeJSON bool

var decodeCmd = &cobra.Command{
	Use:   "decode [METAR]",
	Short: "Decode a METAR",
	Long: `Decode the METAR given as arguments. Without arguments, every non-empty
line of standard input is decoded as its own report.`,
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().BoolVar(&decodeJSON, "json", false, "print the decoded report as JSON")
}

func runDecode(cmd *cobra.Command, args []string) error {
	var reports []string
	if len(args) > 0 {
		reports = []string{strings.Join(args, " ")}
	} else {
		var err error
		if reports, err = readLines(cmd.InOrStdin()); err != nil {
			return err
		}
	}
	if len(reports) == 0 {
		return errors.New("no METAR given")
	}

	out := cmd.OutOrStdout()
	for _, raw := range reports {
		if err := printReport(out, domain.Decode(raw), decodeJSON); err != nil {
			return err
		}
	}
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return lines, nil
}

func printReport(w io.Writer, r domain.Report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	fmt.Fprintf(w, "Station:     %s\n", orDash(r.Station))
	fmt.Fprintf(w, "Observed:    %s\n", orDash(r.ObservationTime))
	fmt.Fprintf(w, "Wind:        %s\n", formatWind(r.Wind))
	fmt.Fprintf(w, "Visibility:  %s\n", r.Visibility)
	if r.VisibilityCause != "" {
		fmt.Fprintf(w, "Reduced by:  %s\n", r.VisibilityCause)
	}
	if len(r.Conditions) > 0 {
		fmt.Fprintf(w, "Weather:     %s\n", strings.Join(r.Conditions, ", "))
	}
	fmt.Fprintf(w, "Clouds:      %s\n", formatClouds(r.Clouds))
	if r.CeilingFt != nil {
		fmt.Fprintf(w, "Ceiling:     %d ft\n", *r.CeilingFt)
	}
	fmt.Fprintf(w, "Temperature: %d°C (dewpoint %d°C)\n", r.TemperatureC, r.DewpointC)
	fmt.Fprintf(w, "Pressure:    %d %s\n", r.Pressure.Value, r.Pressure.Unit)
	fmt.Fprintf(w, "Category:    %s\n", r.FlightCategory)
	if len(r.GroupsUnmatched) > 0 {
		fmt.Fprintf(w, "Unmatched:   %s\n", strings.Join(r.GroupsUnmatched, " "))
	}
	_, err := fmt.Fprintln(w)
	return err
}

func formatWind(w *domain.Wind) string {
	if w == nil {
		return "calm"
	}
	s := fmt.Sprintf("%s (%s) %d kt", w.Direction, domain.CompassPoint(w.Direction), w.SpeedKnots)
	if w.GustKnots != nil {
		s += fmt.Sprintf(", gusts %d kt", *w.GustKnots)
	}
	if w.VariableFrom != nil && w.VariableTo != nil {
		s += fmt.Sprintf(", varying %03d-%03d", *w.VariableFrom, *w.VariableTo)
	}
	return s
}

func formatClouds(layers []domain.CloudLayer) string {
	if len(layers) == 0 {
		return "-"
	}
	parts := make([]string, len(layers))
	for i, c := range layers {
		p := string(c.Cover)
		switch {
		case c.AltitudeUnknown:
			p += " base unknown"
		case c.AltitudeFeet > 0:
			p += fmt.Sprintf(" %d ft", c.AltitudeFeet)
		}
		if c.Type != "" {
			p += " " + string(c.Type)
		}
		parts[i] = p
	}
	return strings.Join(parts, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/couchcryptid/airfield-weather-kiosk/internal/domain"
	"github.com/spf13/cobra"
)

var categoryCmd = &cobra.Command{
	Use:   "category VISIBILITY_M [CEILING_FT]",
	Short: "Classify visibility and ceiling into a flight category",
	Long:  `Print VFR, MVFR, IFR or LIFR. Without a ceiling the sky is treated as unlimited.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runCategory,
}

var compassCmd = &cobra.Command{
	Use:   "compass DEGREES|VRB",
	Short: "Name a wind direction on the 16-point compass",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompass,
}

func init() {
	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(compassCmd)
}

func runCategory(cmd *cobra.Command, args []string) error {
	vis, err := parseNonNegative("visibility", args[0])
	if err != nil {
		return err
	}
	ceiling := domain.UnlimitedCeilingFeet
	if len(args) == 2 {
		if ceiling, err = parseNonNegative("ceiling", args[1]); err != nil {
			return err
		}
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), domain.Classify(vis, ceiling))
	return err
}

func runCompass(cmd *cobra.Command, args []string) error {
	dir := domain.VariableWind
	if !strings.EqualFold(args[0], "VRB") {
		deg, err := strconv.Atoi(args[0])
		if err != nil || deg < 0 || deg > 360 {
			return fmt.Errorf("invalid direction %q: want 0-360 or VRB", args[0])
		}
		dir = domain.Heading(deg)
	}

	_, err := fmt.Fprintln(cmd.OutOrStdout(), domain.CompassPoint(dir))
	return err
}

func parseNonNegative(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, s)
	}
	return n, nil
}

// Command metar decodes METAR reports from the command line.
//
// Usage:
//
//	metar decode "ESMK 181150Z 27012KT 9999 FEW040 SCT100 18/08 Q1018"
//	echo "$REPORT" | metar decode --json
//	metar fetch ESMK
//	metar category 4000 800
//	metar compass 240
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "metar",
	Short: "Decode METAR weather reports",
	Long: `metar decodes aviation routine weather reports into wind, visibility,
cloud and pressure readings and classifies the flight category.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

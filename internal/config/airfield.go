package config

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

var icaoRe = regexp.MustCompile(`^[A-Z]{4}$`)

// Airfield describes the kiosk's home station and any extra stations to poll.
type Airfield struct {
	ICAO     string   `toml:"icao" json:"icao"`
	Name     string   `toml:"name" json:"name"`
	Stations []string `toml:"stations" json:"-"`
	Location Location `toml:"location" json:"location"`
}

// Location is the public position of the airfield.
type Location struct {
	Lat      float64 `toml:"lat" json:"lat"`
	Lon      float64 `toml:"lon" json:"lon"`
	Timezone string  `toml:"timezone" json:"timezone"`
}

// DefaultAirfield is Kristianstad, used when nothing overrides it.
func DefaultAirfield() Airfield {
	return Airfield{
		ICAO: "ESMK",
		Name: "Kristianstad",
		Location: Location{
			Lat:      55.92,
			Lon:      14.08,
			Timezone: "Europe/Stockholm",
		},
	}
}

// AllStations returns the home station followed by the extra stations,
// without duplicates.
func (a Airfield) AllStations() []string {
	out := []string{a.ICAO}
	for _, s := range a.Stations {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

// LoadAirfield reads a TOML airfield file. Fields missing from the file keep
// their defaults.
func LoadAirfield(path string) (Airfield, error) {
	a := DefaultAirfield()
	if _, err := toml.DecodeFile(path, &a); err != nil {
		return Airfield{}, fmt.Errorf("read airfield file %s: %w", path, err)
	}
	a.normalize()
	if err := a.validate(); err != nil {
		return Airfield{}, fmt.Errorf("airfield file %s: %w", path, err)
	}
	return a, nil
}

// loadAirfield applies AIRFIELD_FILE, then AIRFIELD_ICAO and AIRFIELD_STATIONS
// on top of the defaults.
func loadAirfield() (Airfield, error) {
	a := DefaultAirfield()
	if path := os.Getenv("AIRFIELD_FILE"); path != "" {
		var err error
		if a, err = LoadAirfield(path); err != nil {
			return Airfield{}, err
		}
	}

	if v := os.Getenv("AIRFIELD_ICAO"); v != "" {
		a.ICAO = v
	}
	if v := os.Getenv("AIRFIELD_STATIONS"); v != "" {
		a.Stations = strings.Split(v, ",")
	}

	a.normalize()
	if err := a.validate(); err != nil {
		return Airfield{}, err
	}
	return a, nil
}

func (a *Airfield) normalize() {
	a.ICAO = strings.ToUpper(strings.TrimSpace(a.ICAO))
	var stations []string
	for _, s := range a.Stations {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			stations = append(stations, s)
		}
	}
	a.Stations = stations
}

func (a Airfield) validate() error {
	if !icaoRe.MatchString(a.ICAO) {
		return fmt.Errorf("invalid AIRFIELD_ICAO %q", a.ICAO)
	}
	for _, s := range a.Stations {
		if !icaoRe.MatchString(s) {
			return fmt.Errorf("invalid station %q in AIRFIELD_STATIONS", s)
		}
	}
	return nil
}

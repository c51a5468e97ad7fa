package domain

import (
	"encoding/json"
	"fmt"
)

// DefaultVisibilityMeters is the "10 km or more" sentinel used when a report
// has CAVOK or no visibility group.
const DefaultVisibilityMeters = 9999

// UnlimitedCeilingFeet stands in for "no ceiling" in flight-category math.
const UnlimitedCeilingFeet = 99999

// StandardPressureHPa is reported when the METAR carries no pressure group.
const StandardPressureHPa = 1013

// Report is a decoded METAR. It is built fresh per Decode call and owns all
// of its slices.
type Report struct {
	Raw                  string              `json:"raw"`
	Station              string              `json:"station"`
	ObservationTime      string              `json:"observation_time"`
	Wind                 *Wind               `json:"wind"`
	Visibility           string              `json:"visibility"`
	VisibilityMeters     int                 `json:"visibility_meters"`
	CAVOK                bool                `json:"cavok"`
	VisibilityCause      string              `json:"visibility_cause,omitempty"`
	VerticalVisibilityFt *int                `json:"vertical_visibility_ft"`
	RunwayVisualRange    []RunwayVisualRange `json:"runway_visual_range"`
	Clouds               []CloudLayer        `json:"clouds"`
	TemperatureC         int                 `json:"temperature_c"`
	DewpointC            int                 `json:"dewpoint_c"`
	Pressure             Pressure            `json:"pressure"`
	Conditions           []string            `json:"conditions"`
	FlightCategory       FlightCategory      `json:"flight_category"`
	CeilingFt            *int                `json:"ceiling_ft"`
	GroupsMatched        int                 `json:"groups_matched"`
	GroupsUnmatched      []string            `json:"groups_unmatched"`
}

// WindDirection is a heading in degrees or the variable marker.
type WindDirection struct {
	Degrees  int
	Variable bool
}

// VariableWind is the direction reported as "VRB".
var VariableWind = WindDirection{Variable: true}

// Heading returns a fixed direction in degrees.
func Heading(deg int) WindDirection {
	return WindDirection{Degrees: deg}
}

func (d WindDirection) String() string {
	if d.Variable {
		return "VRB"
	}
	return fmt.Sprintf("%03d", d.Degrees)
}

// MarshalJSON encodes a fixed heading as a number and a variable one as "VRB".
func (d WindDirection) MarshalJSON() ([]byte, error) {
	if d.Variable {
		return []byte(`"VRB"`), nil
	}
	return json.Marshal(d.Degrees)
}

// UnmarshalJSON accepts the forms written by MarshalJSON.
func (d *WindDirection) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "VRB" {
			return fmt.Errorf("unexpected wind direction %q", s)
		}
		*d = VariableWind
		return nil
	}
	var deg int
	if err := json.Unmarshal(data, &deg); err != nil {
		return fmt.Errorf("decode wind direction: %w", err)
	}
	*d = Heading(deg)
	return nil
}

// Wind is always normalized to knots.
type Wind struct {
	Direction    WindDirection `json:"direction"`
	SpeedKnots   int           `json:"speed_kt"`
	GustKnots    *int          `json:"gust_kt,omitempty"`
	VariableFrom *int          `json:"variable_from,omitempty"`
	VariableTo   *int          `json:"variable_to,omitempty"`
}

// RVRTrend is the tendency suffix of a runway visual range group.
type RVRTrend string

const (
	RVRImproving     RVRTrend = "improving"
	RVRDeteriorating RVRTrend = "deteriorating"
	RVRNoChange      RVRTrend = "no_change"
)

// RunwayVisualRange is one "Rnn/..." group.
type RunwayVisualRange struct {
	Runway           string   `json:"runway"`
	VisibilityMeters int      `json:"visibility_meters"`
	VariableMax      *int     `json:"variable_max,omitempty"`
	Trend            RVRTrend `json:"trend,omitempty"`
}

// CloudCover is the amount code of a cloud group.
type CloudCover string

const (
	CoverFew           CloudCover = "few"
	CoverScattered     CloudCover = "scattered"
	CoverBroken        CloudCover = "broken"
	CoverOvercast      CloudCover = "overcast"
	CoverClear         CloudCover = "clear"
	CoverInsignificant CloudCover = "insignificant"
	CoverNone          CloudCover = "none"
)

// IsLayer reports whether the cover describes an actual cloud layer with a base.
func (c CloudCover) IsLayer() bool {
	return c == CoverFew || c == CoverScattered || c.IsCeiling()
}

// IsCeiling reports whether a layer of this cover forms a ceiling.
func (c CloudCover) IsCeiling() bool {
	return c == CoverBroken || c == CoverOvercast
}

// CloudType is the convective cloud suffix.
type CloudType string

const (
	Cumulonimbus    CloudType = "cumulonimbus"
	ToweringCumulus CloudType = "towering_cumulus"
)

// CloudLayer is one cloud group. AltitudeFeet is 0 for clear/no-layer codes
// and for layers whose base was not reported (AltitudeUnknown).
type CloudLayer struct {
	Cover           CloudCover `json:"cover"`
	AltitudeFeet    int        `json:"altitude_ft"`
	AltitudeUnknown bool       `json:"altitude_unknown,omitempty"`
	Type            CloudType  `json:"type,omitempty"`
}

// PressureUnit tags a pressure value.
type PressureUnit string

const Hectopascals PressureUnit = "hPa"

// Pressure is the QNH altimeter setting.
type Pressure struct {
	Value int          `json:"value"`
	Unit  PressureUnit `json:"unit"`
}

// FlightCategory buckets visibility and ceiling into flight-rule tiers.
type FlightCategory string

const (
	VFR  FlightCategory = "VFR"
	MVFR FlightCategory = "MVFR"
	IFR  FlightCategory = "IFR"
	LIFR FlightCategory = "LIFR"
)

// FlightCategories lists every category from best to worst.
var FlightCategories = []FlightCategory{VFR, MVFR, IFR, LIFR}

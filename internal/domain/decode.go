package domain

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

const (
	// mpsToKnots converts meters per second to knots.
	mpsToKnots = 1.944
	// hPaPerInHg converts inches of mercury to hectopascals.
	hPaPerInHg = 33.8639
	// metersPerFoot converts RVR groups reported in feet.
	metersPerFoot = 0.3048
)

var (
	stationRe   = regexp.MustCompile(`^[A-Z]{4}$`)
	timeRe      = regexp.MustCompile(`^\d{6}Z$`)
	windRe      = regexp.MustCompile(`^(VRB|\d{3})(\d{2,3})(?:G(\d{2,3}))?(KT|MPS)$`)
	windVarRe   = regexp.MustCompile(`^(\d{3})V(\d{3})$`)
	visRe       = regexp.MustCompile(`^\d{4}$`)
	rvrRe       = regexp.MustCompile(`^R(\d{2}[LCR]?)/[PM]?(\d{4})(?:V[PM]?(\d{4}))?(FT)?/?([UDN])?$`)
	vertVisRe   = regexp.MustCompile(`^VV(\d{3})$`)
	cloudRe     = regexp.MustCompile(`^(FEW|SCT|BKN|OVC|SKC|CLR|NSC|NCD)(\d{3})?(CB|TCU|///)?$`)
	tempRe      = regexp.MustCompile(`^(M?\d{1,2})/(M?\d{1,2})$`)
	qnhRe       = regexp.MustCompile(`^Q(\d{4})$`)
	altimeterRe = regexp.MustCompile(`^A(\d{4})$`)
)

var cloudCovers = map[string]CloudCover{
	"FEW": CoverFew,
	"SCT": CoverScattered,
	"BKN": CoverBroken,
	"OVC": CoverOvercast,
	"SKC": CoverClear,
	"CLR": CoverClear,
	"NSC": CoverInsignificant,
	"NCD": CoverNone,
}

var cloudTypes = map[string]CloudType{
	"CB":  Cumulonimbus,
	"TCU": ToweringCumulus,
}

var rvrTrends = map[string]RVRTrend{
	"U": RVRImproving,
	"D": RVRDeteriorating,
	"N": RVRNoChange,
}

// rule classifies one group. apply returns false when the group is not of
// this rule's kind, letting the next rule try it.
type rule struct {
	name  string
	apply func(st *decodeState, group string) bool
}

// rules are evaluated in order for every group; the first that applies wins.
// The order matters: visibility must be tried after time and wind, and
// present weather before vertical visibility and clouds.
var rules = []rule{
	{"station", decodeStation},
	{"time", decodeTime},
	{"wind", decodeWind},
	{"wind_variation", decodeWindVariation},
	{"cavok", decodeCAVOK},
	{"visibility", decodeVisibility},
	{"rvr", decodeRVR},
	{"weather", decodeWeather},
	{"vertical_visibility", decodeVerticalVisibility},
	{"cloud", decodeCloud},
	{"temperature", decodeTemperature},
	{"pressure", decodeQNH},
	{"altimeter", decodeAltimeter},
}

// decodeState accumulates one report. It is local to a Decode call.
type decodeState struct {
	index int

	station         string
	observationTime string
	wind            *Wind
	visibility      int
	cavok           bool
	cause           string
	causeKind       phenomenonKind
	vertVis         *int
	rvr             []RunwayVisualRange
	clouds          []CloudLayer
	temperature     int
	dewpoint        int
	pressure        Pressure
	conditions      []string
	matched         int
	unmatched       []string

	timeSet     bool
	windSet     bool
	tempSet     bool
	pressureSet bool
}

// Tokenize splits a raw report into its whitespace-separated groups.
func Tokenize(raw string) []string {
	return strings.Fields(strings.TrimSpace(raw))
}

// Decode parses a raw METAR. It never fails: groups it cannot classify are
// listed in GroupsUnmatched and fields without a group keep their defaults.
func Decode(raw string) Report {
	st := &decodeState{
		visibility: DefaultVisibilityMeters,
		pressure:   Pressure{Value: StandardPressureHPa, Unit: Hectopascals},
	}

	for i, group := range Tokenize(raw) {
		st.index = i
		if st.classify(group) {
			st.matched++
		} else {
			st.unmatched = append(st.unmatched, group)
		}
	}

	return st.report(raw)
}

func (st *decodeState) classify(group string) bool {
	for _, r := range rules {
		if r.apply(st, group) {
			return true
		}
	}
	return false
}

func (st *decodeState) report(raw string) Report {
	r := Report{
		Raw:                  raw,
		Station:              st.station,
		ObservationTime:      st.observationTime,
		Wind:                 st.wind,
		VisibilityMeters:     st.visibility,
		CAVOK:                st.cavok,
		VisibilityCause:      st.cause,
		VerticalVisibilityFt: st.vertVis,
		RunwayVisualRange:    nonNil(st.rvr),
		Clouds:               nonNil(st.clouds),
		TemperatureC:         st.temperature,
		DewpointC:            st.dewpoint,
		Pressure:             st.pressure,
		Conditions:           nonNil(st.conditions),
		GroupsMatched:        st.matched,
		GroupsUnmatched:      nonNil(st.unmatched),
	}

	if st.cavok {
		r.Visibility = "CAVOK"
	} else {
		r.Visibility = FormatVisibility(st.visibility)
	}

	ceiling, ok := CeilingFeet(r)
	if ok {
		r.CeilingFt = &ceiling
	}
	r.FlightCategory = Classify(r.VisibilityMeters, ceiling)
	return r
}

func decodeStation(st *decodeState, group string) bool {
	if st.index > 1 || st.station != "" || !stationRe.MatchString(group) {
		return false
	}
	st.station = group
	return true
}

func decodeTime(st *decodeState, group string) bool {
	if !timeRe.MatchString(group) {
		return false
	}
	if !st.timeSet {
		st.observationTime = group
		st.timeSet = true
	}
	return true
}

func decodeWind(st *decodeState, group string) bool {
	m := windRe.FindStringSubmatch(group)
	if m == nil {
		return false
	}
	if st.windSet {
		return true
	}
	st.windSet = true

	convert := func(v int) int { return v }
	if m[4] == "MPS" {
		convert = func(v int) int { return int(math.Round(float64(v) * mpsToKnots)) }
	}

	w := Wind{SpeedKnots: convert(atoi(m[2]))}
	if m[1] == "VRB" {
		w.Direction = VariableWind
	} else {
		w.Direction = Heading(atoi(m[1]))
	}
	if m[3] != "" {
		if gust := convert(atoi(m[3])); gust > w.SpeedKnots {
			w.GustKnots = &gust
		}
	}

	// Calm wind is reported as no wind.
	if !w.Direction.Variable && w.Direction.Degrees == 0 && w.SpeedKnots == 0 && w.GustKnots == nil {
		return true
	}
	st.wind = &w
	return true
}

func decodeWindVariation(st *decodeState, group string) bool {
	m := windVarRe.FindStringSubmatch(group)
	if m == nil || !st.windSet {
		return false
	}
	if st.wind != nil && st.wind.VariableFrom == nil {
		from, to := atoi(m[1]), atoi(m[2])
		st.wind.VariableFrom = &from
		st.wind.VariableTo = &to
	}
	return true
}

func decodeCAVOK(st *decodeState, group string) bool {
	if group != "CAVOK" {
		return false
	}
	st.cavok = true
	st.visibility = DefaultVisibilityMeters
	return true
}

func decodeVisibility(st *decodeState, group string) bool {
	if !visRe.MatchString(group) {
		return false
	}
	st.visibility = atoi(group)
	st.cavok = false
	return true
}

func decodeRVR(st *decodeState, group string) bool {
	m := rvrRe.FindStringSubmatch(group)
	if m == nil {
		return false
	}
	toMeters := func(v int) int { return v }
	if m[4] == "FT" {
		toMeters = func(v int) int { return int(math.Round(float64(v) * metersPerFoot)) }
	}

	rvr := RunwayVisualRange{
		Runway:           m[1],
		VisibilityMeters: toMeters(atoi(m[2])),
		Trend:            rvrTrends[m[5]],
	}
	if m[3] != "" {
		maxVis := toMeters(atoi(m[3]))
		rvr.VariableMax = &maxVis
	}
	st.rvr = append(st.rvr, rvr)
	return true
}

func decodeWeather(st *decodeState, group string) bool {
	w, ok := parseWeather(group)
	if !ok {
		return false
	}
	if !slices.Contains(st.conditions, w.description) {
		st.conditions = append(st.conditions, w.description)
	}

	// A precipitation cause replaces an obscuration one; otherwise the first
	// cause stays.
	switch {
	case w.cause == "":
	case st.cause == "":
		st.cause, st.causeKind = w.cause, w.causeKind
	case st.causeKind == kindObscuration && w.causeKind == kindPrecipitation:
		st.cause, st.causeKind = w.cause, w.causeKind
	}
	return true
}

func decodeVerticalVisibility(st *decodeState, group string) bool {
	m := vertVisRe.FindStringSubmatch(group)
	if m == nil {
		return false
	}
	if st.vertVis == nil {
		ft := atoi(m[1]) * 100
		st.vertVis = &ft
	}
	return true
}

func decodeCloud(st *decodeState, group string) bool {
	m := cloudRe.FindStringSubmatch(group)
	if m == nil {
		return false
	}
	layer := CloudLayer{
		Cover: cloudCovers[m[1]],
		Type:  cloudTypes[m[3]], // "///" has no entry and decodes as no type
	}
	if layer.Cover == "" {
		layer.Cover = CloudCover(m[1])
	}
	switch {
	case m[2] != "":
		layer.AltitudeFeet = atoi(m[2]) * 100
	case layer.Cover.IsLayer():
		// "BKN///": the station could not measure the base.
		layer.AltitudeUnknown = true
	}
	st.clouds = append(st.clouds, layer)
	return true
}

func decodeTemperature(st *decodeState, group string) bool {
	m := tempRe.FindStringSubmatch(group)
	if m == nil {
		return false
	}
	if !st.tempSet {
		st.temperature = parseSigned(m[1])
		st.dewpoint = parseSigned(m[2])
		st.tempSet = true
	}
	return true
}

func decodeQNH(st *decodeState, group string) bool {
	m := qnhRe.FindStringSubmatch(group)
	if m == nil {
		return false
	}
	if !st.pressureSet {
		st.pressure = Pressure{Value: atoi(m[1]), Unit: Hectopascals}
		st.pressureSet = true
	}
	return true
}

// decodeAltimeter reads "Annnn" as hundredths of an inch of mercury and
// stores it in hectopascals.
func decodeAltimeter(st *decodeState, group string) bool {
	m := altimeterRe.FindStringSubmatch(group)
	if m == nil {
		return false
	}
	if !st.pressureSet {
		inHg := float64(atoi(m[1])) / 100
		st.pressure = Pressure{Value: int(math.Round(inHg * hPaPerInHg)), Unit: Hectopascals}
		st.pressureSet = true
	}
	return true
}

// FormatVisibility renders meters the way the kiosk shows them.
func FormatVisibility(meters int) string {
	switch {
	case meters >= DefaultVisibilityMeters:
		return "10+ km"
	case meters >= 1000:
		tenths := (meters + 50) / 100
		return strconv.Itoa(tenths/10) + "." + strconv.Itoa(tenths%10) + " km"
	default:
		return strconv.Itoa(meters) + " m"
	}
}

// parseSigned reads a temperature where a leading "M" means minus.
func parseSigned(s string) int {
	if rest, ok := strings.CutPrefix(s, "M"); ok {
		return -atoi(rest)
	}
	return atoi(s)
}

// atoi is only called on regex-validated digit runs.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// nonNil keeps empty lists as [] rather than null in JSON.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

package domain

import "math"

// Classify maps visibility and ceiling to a flight category. Thresholds are
// strict "less than" comparisons evaluated from worst to best.
func Classify(visibilityMeters, ceilingFeet int) FlightCategory {
	switch {
	case visibilityMeters < 1600 || ceilingFeet < 500:
		return LIFR
	case visibilityMeters < 5000 || ceilingFeet < 1000:
		return IFR
	case visibilityMeters < 8000 || ceilingFeet < 3000:
		return MVFR
	default:
		return VFR
	}
}

// CeilingFeet returns the report's ceiling: vertical visibility when the sky
// is obscured, else the lowest broken or overcast layer with a reported base.
// ok is false when neither exists, in which case UnlimitedCeilingFeet is
// returned.
func CeilingFeet(r Report) (ceiling int, ok bool) {
	if r.VerticalVisibilityFt != nil {
		return *r.VerticalVisibilityFt, true
	}

	ceiling = UnlimitedCeilingFeet
	for _, c := range r.Clouds {
		if c.Cover.IsCeiling() && !c.AltitudeUnknown && c.AltitudeFeet < ceiling {
			ceiling = c.AltitudeFeet
			ok = true
		}
	}
	return ceiling, ok
}

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CompassPoint names a wind direction on the 16-point compass.
func CompassPoint(d WindDirection) string {
	if d.Variable {
		return "Variable"
	}
	i := int(math.Round(float64(d.Degrees)/22.5)) % len(compassPoints)
	if i < 0 {
		i += len(compassPoints)
	}
	return compassPoints[i]
}

package domain

import (
	"regexp"
	"strings"
)

// phenomenonKind separates codes that can explain reduced visibility.
type phenomenonKind int

const (
	kindOther phenomenonKind = iota
	kindPrecipitation
	kindObscuration
)

type phenomenon struct {
	name string
	kind phenomenonKind
}

// phenomena holds the two-letter precipitation, obscuration and other codes.
var phenomena = map[string]phenomenon{
	"DZ": {"drizzle", kindPrecipitation},
	"RA": {"rain", kindPrecipitation},
	"SN": {"snow", kindPrecipitation},
	"SG": {"snow grains", kindPrecipitation},
	"IC": {"ice crystals", kindPrecipitation},
	"PL": {"ice pellets", kindPrecipitation},
	"GR": {"hail", kindPrecipitation},
	"GS": {"small hail", kindPrecipitation},
	"UP": {"unknown precipitation", kindPrecipitation},

	"BR": {"mist", kindObscuration},
	"FG": {"fog", kindObscuration},
	"FU": {"smoke", kindObscuration},
	"VA": {"volcanic ash", kindObscuration},
	"DU": {"widespread dust", kindObscuration},
	"SA": {"sand", kindObscuration},
	"HZ": {"haze", kindObscuration},
	"PY": {"spray", kindObscuration},

	"PO": {"dust whirls", kindOther},
	"SQ": {"squalls", kindOther},
	"FC": {"funnel cloud", kindOther},
	"SS": {"sandstorm", kindOther},
	"DS": {"duststorm", kindOther},
}

// descriptors qualify the phenomena that follow them.
var descriptors = map[string]string{
	"MI": "shallow",
	"PR": "partial",
	"BC": "patches of",
	"DR": "low drifting",
	"BL": "blowing",
	"SH": "showers",
	"TS": "thunderstorm",
	"FZ": "freezing",
}

// weatherRe matches a present-weather group: intensity or proximity,
// optional descriptor, then any number of phenomenon codes.
var weatherRe = regexp.MustCompile(
	`^(\+|-|VC)?(MI|PR|BC|DR|BL|SH|TS|FZ)?((?:DZ|RA|SN|SG|IC|PL|GR|GS|UP|BR|FG|FU|VA|DU|SA|HZ|PY|PO|SQ|FC|SS|DS)*)$`,
)

// weatherGroup is a parsed present-weather group.
type weatherGroup struct {
	description string
	cause       string
	causeKind   phenomenonKind
}

// parseWeather decodes a present-weather group. ok is false when the token
// is not one, including a bare intensity sign.
func parseWeather(token string) (weatherGroup, bool) {
	m := weatherRe.FindStringSubmatch(token)
	if m == nil {
		return weatherGroup{}, false
	}
	qualifier, descriptor, codes := m[1], m[2], m[3]
	// Only showers and thunderstorms stand on their own without a phenomenon.
	if codes == "" && descriptor != "SH" && descriptor != "TS" {
		return weatherGroup{}, false
	}

	var names []string
	var g weatherGroup
	for i := 0; i+2 <= len(codes); i += 2 {
		p := phenomena[codes[i:i+2]]
		names = append(names, p.name)
		// Phenomena in the vicinity do not affect visibility at the field.
		if qualifier == "VC" || g.causeKind == kindPrecipitation {
			continue
		}
		if p.kind == kindPrecipitation || (p.kind == kindObscuration && g.cause == "") {
			g.cause = p.name
			g.causeKind = p.kind
		}
	}

	g.description = describeWeather(qualifier, descriptor, names)
	return g, true
}

func describeWeather(qualifier, descriptor string, names []string) string {
	subject := strings.Join(names, " and ")

	var desc string
	switch descriptor {
	case "":
		desc = subject
	case "SH":
		if subject == "" {
			desc = "showers"
		} else {
			desc = subject + " showers"
		}
	case "TS":
		if subject == "" {
			desc = "thunderstorm"
		} else {
			desc = "thunderstorm with " + subject
		}
	default:
		desc = strings.TrimSpace(descriptors[descriptor] + " " + subject)
	}

	switch qualifier {
	case "-":
		desc = "light " + desc
	case "+":
		if descriptor == "" && subject == "funnel cloud" {
			desc = "tornado or waterspout"
		} else {
			desc = "heavy " + desc
		}
	case "VC":
		desc += " in vicinity"
	}
	return capitalize(desc)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Package domain decodes METAR aviation weather reports for the airfield kiosk.
//
// # Data Source
//
// Raw METAR and TAF text is fetched from the CheckWX API (or the built-in demo
// provider) by the poller adapter. Only the raw strings cross into this
// package; provider-specific decoded fields are ignored so the kiosk shows the
// same result regardless of upstream.
//
// # METAR Conventions
//
// A report is a run of whitespace-separated groups, e.g.
//
//	ESMK 171350Z 24012G18KT 9999 FEW040 SCT080 12/05 Q1018
//
// Groups are classified independently and in order. Groups that match no rule
// are counted as unmatched and otherwise ignored; regional and rarely used
// groups are common in live feeds.
//
// Station and time:
//
//	"ESMK"     four-letter ICAO identifier, first group (second after "METAR").
//	"171350Z"  day 17, 13:50 UTC. Kept as the raw token.
//
// Wind:
//
//	"24012G18KT"  240°, 12 kt, gusting 18 kt.
//	"VRB03KT"     variable direction.
//	"05006MPS"    meters per second; converted with ×1.944, rounded.
//	"00000KT"     calm; the report carries no wind.
//	"200V280"     direction varying between 200° and 280°.
//
// Visibility:
//
//	"9999"   10 km or more. Also the default when no group is present.
//	"0800"   800 m.
//	"CAVOK"  ceiling and visibility OK; visibility 9999.
//
// Runway visual range:
//
//	"R09/0600"        runway 09, 600 m.
//	"R27L/P1500U"     above 1500 m, improving.
//	"R19/0300V0600D"  300–600 m, deteriorating.
//
// Weather phenomena: optional intensity ("-", "+") or proximity ("VC"),
// optional descriptor (MI, PR, BC, DR, BL, SH, TS, FZ), then zero or more
// two-letter precipitation or obscuration codes, e.g. "-SHRA", "+TSRA",
// "BCFG", "VCSH".
//
// Cloud and vertical visibility:
//
//	"BKN005CB"  broken at 500 ft, cumulonimbus.
//	"NSC"       no significant cloud.
//	"VV002"     sky obscured, vertical visibility 200 ft.
//
// Temperature and pressure:
//
//	"M05/M10"  -5 °C, dewpoint -10 °C.
//	"Q1018"    QNH 1018 hPa.
//	"A2992"    29.92 inHg, converted to 1013 hPa.
//
// Every group is offered to the rules, including those after "RMK",
// "TEMPO" and "BECMG"; the markers themselves are left unmatched.
// "BKN///" is a layer whose base was not reported and never forms a ceiling.
//
// # Flight Category
//
// Derived once from visibility and ceiling (vertical visibility, else the
// lowest broken or overcast layer, else unlimited):
//
//	LIFR  visibility < 1600 m or ceiling < 500 ft
//	IFR   visibility < 5000 m or ceiling < 1000 ft
//	MVFR  visibility < 8000 m or ceiling < 3000 ft
//	VFR   otherwise
//
// The comparisons are strict: a 500 ft ceiling is IFR, not LIFR.
package domain

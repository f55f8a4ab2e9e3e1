package main

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ISO-8601 UTC with millisecond precision, the "datetime" ledger column
// format. Fixed-width and zero-padded, so lexicographic order is
// chronological order.
const isoUTCMillisFormat = "2006-01-02T15:04:05.000Z"

// Localized month abbreviations seen in German statements, substituted
// before trying the abbreviated-month layouts.
var germanMonthReplacer = strings.NewReplacer(
	"Mär", "Mar",
	"Mai", "May",
	"Okt", "Oct",
	"Dez", "Dec",
)

var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// Saxo prints trade execution timestamps with day-month-abbreviation glued
// to the time.
const saxoTradeTimeLayout = "02-Jan-200615:04:05"

// Date layouts used by the supported brokers, tried in order. The glued
// day-month-time layout is how one broker prints execution timestamps.
var knownDateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"2-Jan-200615:04:05",
	"02-Jan-200615:04:05",
}

// parseDateTimeUTC converts a statement date or datetime string into a
// timezone-aware UTC instant. Strings without zone information are taken as
// UTC. customLayout, when non-empty, is tried first.
func parseDateTimeUTC(value string, customLayout string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, &DateParseError{Value: value}
	}
	if customLayout != "" {
		if t, err := time.Parse(customLayout, trimmed); err == nil {
			return t.UTC(), nil
		}
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.UTC(), nil
		}
	}
	localized := germanMonthReplacer.Replace(trimmed)
	for _, layout := range knownDateLayouts {
		if t, err := time.Parse(layout, localized); err == nil {
			return t.UTC(), nil
		}
	}
	// Last resort: the flexible parser accepts whatever odd format a broker
	// comes up with next.
	parsed, err := dateparse.ParseIn(localized, time.UTC)
	if err != nil {
		return time.Time{}, &DateParseError{Value: value}
	}
	return parsed.UTC(), nil
}

// projectToTimezone converts a UTC instant into the display timezone used
// for the date/time ledger columns. A zero instant is rejected: assuming a
// zone at this stage would hide extraction bugs.
func projectToTimezone(t time.Time, loc *time.Location) (time.Time, error) {
	if t.IsZero() {
		return time.Time{}, &InvalidInstantError{}
	}
	return t.In(loc), nil
}

func formatISOUTC(t time.Time) string {
	return t.UTC().Format(isoUTCMillisFormat)
}

// Canonical time of day per category, applied when the source carries a date
// only. Same-day records then sort deterministically across categories; this
// is a presentation convention, not the true execution time.
var categoryTimeOfDay = map[Category]struct{ hour, minute int }{
	CategoryTrade:               {6, 30},
	CategoryInterest:            {7, 30},
	CategoryDepositsWithdrawals: {8, 30},
	CategoryDividend:            {9, 0},
	CategoryFee:                 {10, 0},
}

// applyCategoryTime pins a date-only instant to the category's canonical
// UTC time of day. Unknown categories keep midnight.
func applyCategoryTime(t time.Time, category Category) time.Time {
	tod, ok := categoryTimeOfDay[category]
	if !ok {
		return t.UTC()
	}
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), tod.hour, tod.minute, 0, 0, time.UTC)
}

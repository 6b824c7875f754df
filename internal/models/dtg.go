package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DTG layouts. Go month names parse case-insensitively, so "MAR" and "Mar" both match.
const (
	dtgLayout      = "021504ZJan2006" // DDHHMMZMMMYYYY, header timeframe
	shortDTGLayout = "021504ZJan2006" // DDHHMMZMMM plus an implied year
	exportLayout   = "021504ZJan06"   // DDHHMMZMMMYY, export rendering
)

var (
	dtgPattern      = regexp.MustCompile(`^\d{6}Z[A-Za-z]{3}\d{4}$`)
	shortDTGPattern = regexp.MustCompile(`^\d{6}Z[A-Za-z]{3}$`)
)

// isoLayouts are the ISO-shaped timestamp forms accepted from legacy records
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDTG parses a full DTG of the form DDHHMMZMMMYYYY (e.g. 060600ZMAR2002)
func ParseDTG(value string) (time.Time, error) {
	if !dtgPattern.MatchString(value) {
		return time.Time{}, fmt.Errorf("invalid DTG %q: want DDHHMMZMMMYYYY", value)
	}
	t, err := time.Parse(dtgLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid DTG %q: %w", value, err)
	}
	return t, nil
}

// ParseShortDTG parses a DTG of the form DDHHMMZMMM, assuming the given year
func ParseShortDTG(value string, year int) (time.Time, error) {
	if !shortDTGPattern.MatchString(value) {
		return time.Time{}, fmt.Errorf("invalid short DTG %q: want DDHHMMZMMM", value)
	}
	t, err := time.Parse(shortDTGLayout, value+strconv.Itoa(year))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid short DTG %q: %w", value, err)
	}
	return t, nil
}

// ParseISO parses an ISO-shaped timestamp. Values without a zone are taken as UTC.
func ParseISO(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDTG renders t in UTC as DDHHMMZMMMYYYY in upper case
func FormatDTG(t time.Time) string {
	return strings.ToUpper(t.UTC().Format(dtgLayout))
}

// ISOToDTG converts an ISO timestamp to a full DTG. Values that do not parse are
// returned unchanged.
func ISOToDTG(value string) string {
	t, ok := ParseISO(value)
	if !ok {
		return value
	}
	return FormatDTG(t)
}

// ExportDTG renders an ISO timestamp as DDHHMMZMMMYY in upper case. Values that do
// not parse as ISO, including values already in DTG form, pass through unchanged.
func ExportDTG(value string) string {
	t, ok := ParseISO(value)
	if !ok {
		return value
	}
	return strings.ToUpper(t.UTC().Format(exportLayout))
}

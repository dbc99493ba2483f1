package trips

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Timestamp layouts seen in the feed, most specific first. Values with a
// zone offset are converted to UTC; naive values are taken as UTC already.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime is the tolerant timestamp parser shared by the actual- and
// planned-data paths. Unparseable values become nil, never errors.
func ParseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			u := t.UTC()
			return &u
		}
	}
	return nil
}

// ParseBool is the total boolean coercion: true/false, 1/0, yes/no, any
// casing. Unknown values are false.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "t", "yes", "y":
		return true
	}
	return false
}

// ParseFloat returns nil for empty or malformed numbers.
func ParseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

var innerWhitespace = regexp.MustCompile(`\s+`)

// NormalizeSignature trims, removes internal whitespace and uppercases a
// location signature so joins against the station table are exact.
func NormalizeSignature(s string) string {
	s = strings.TrimSpace(s)
	s = innerWhitespace.ReplaceAllString(s, "")
	return strings.ToUpper(s)
}

// tripDateOf returns the calendar date (UTC) of an advertised time.
func tripDateOf(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

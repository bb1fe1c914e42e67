package util

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	yearRe     = regexp.MustCompile(`^(\d{4})`)
	durationRe = regexp.MustCompile(`^(?:(\d+):)?(\d+):(\d\d)$`)
	wordRe     = regexp.MustCompile(`(^[\pL\pN])|([^\pL\pN][\pL\pN])`)
)

// YearFromDate extracts a four-digit year from the start of a date string
// ("1985-09-30", "1985"). Returns 0 when none is present.
func YearFromDate(date string) int {
	m := yearRe.FindStringSubmatch(date)
	if m == nil {
		return 0
	}
	year, _ := strconv.Atoi(m[1])
	return year
}

// ParseClockDuration parses "[h:]mm:ss" style duration strings as used by
// Discogs track listings. Returns 0 when the string does not parse.
func ParseClockDuration(s string) time.Duration {
	m := durationRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second
}

// Capitalize upper-cases every letter that starts the string or follows a
// non-alphanumeric character ("hip hop" -> "Hip Hop", "drum'n'bass" ->
// "Drum'N'Bass").
func Capitalize(s string) string {
	return wordRe.ReplaceAllStringFunc(s, strings.ToUpper)
}

// IntOrZero parses an integer token, returning 0 for empty or invalid input
func IntOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

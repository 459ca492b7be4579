package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultLookback is used when a lookback string cannot be parsed.
const DefaultLookback = 30 * 24 * time.Hour

var lookbackPattern = regexp.MustCompile(`^(\d+)([dhm])$`)

// ParseLookback converts a lookback window of the form "<n><unit>" with
// unit d (days), h (hours) or m (minutes) into a duration. Unrecognized
// input falls back to DefaultLookback rather than erroring; sync runs
// are expected to tolerate sloppy cron arguments.
func ParseLookback(s string) time.Duration {
	m := lookbackPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return DefaultLookback
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return DefaultLookback
	}

	switch m[2] {
	case "d":
		return time.Duration(n) * 24 * time.Hour
	case "h":
		return time.Duration(n) * time.Hour
	case "m":
		return time.Duration(n) * time.Minute
	}

	return DefaultLookback
}

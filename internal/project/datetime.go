package project

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Unix-seconds values are only trusted as timestamps when they fall
// within this calendar-year window; outside it they are far more likely
// to be some other numeric field (a count, an id) that happens to parse
// as a number.
const (
	jan1_2000Unix = 946684800
	jan1_2050Unix = 2524608000
)

// ParseFlexibleDatetime attempts to coerce v into milliseconds since the
// Unix epoch. It accepts ISO-8601 and other common datetime strings (via
// araddon/dateparse's fuzzy parser), and numeric values that look like a
// Unix timestamp in seconds, milliseconds, or microseconds. Returns 0 and
// ok=false if no interpretation applies.
func ParseFlexibleDatetime(v any) (int64, bool) {
	switch t := v.(type) {
	case float64:
		return parseNumericEpoch(t)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			if ms, ok := parseNumericEpoch(n); ok {
				return ms, true
			}
		}
		parsed, err := dateparse.ParseAny(s)
		if err != nil {
			return 0, false
		}
		return parsed.UnixMilli(), true
	default:
		return 0, false
	}
}

// parseNumericEpoch interprets n as a Unix timestamp in seconds,
// milliseconds, or microseconds, picking whichever scale lands the
// resulting date within the trusted 2000-2050 window.
func parseNumericEpoch(n float64) (int64, bool) {
	scales := []float64{1, 1e3, 1e6}
	for _, scale := range scales {
		seconds := n / scale
		if seconds >= jan1_2000Unix && seconds < jan1_2050Unix {
			return time.Unix(int64(seconds), 0).UnixMilli(), true
		}
	}
	return 0, false
}

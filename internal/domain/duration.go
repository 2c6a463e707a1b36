package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	minSecRe  = regexp.MustCompile(`^(\d+):(\d{2})$`)
	numUnitRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(h|hr|hrs|hour|hours|m|min|mins|minute|minutes|s|sec|secs|second|seconds)$`)
	bareNumRe = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
)

// ParseFlexible turns a free-form duration string into milliseconds.
// Accepted: "mm:ss" (seconds below 60), bare seconds ("45"), or a
// number with a unit suffix ("10m", "1.5h", "90 sec"). Anything else
// returns nil; callers treat nil as a no-op, never as a failure.
func ParseFlexible(input string) *int64 {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return nil
	}

	if m := minSecRe.FindStringSubmatch(s); m != nil {
		mins, _ := strconv.ParseInt(m[1], 10, 64)
		secs, _ := strconv.ParseInt(m[2], 10, 64)
		if secs >= 60 {
			return nil
		}
		ms := mins*60_000 + secs*1_000
		return &ms
	}

	if m := numUnitRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil
		}
		var unitMs float64
		switch m[2][0] {
		case 'h':
			unitMs = 3_600_000
		case 'm':
			unitMs = 60_000
		default:
			unitMs = 1_000
		}
		ms := int64(math.Round(n * unitMs))
		return &ms
	}

	if bareNumRe.MatchString(s) {
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		ms := int64(math.Round(n * 1_000))
		return &ms
	}

	return nil
}

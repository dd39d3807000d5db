package model

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// MaxStoredDuration bounds the magnitude of a stored duration cell. Anything
// longer is not a race time and is treated as malformed.
const MaxStoredDuration = 24 * time.Hour

// ErrBadDuration is returned for duration cells that cannot be parsed.
var ErrBadDuration = errors.New("malformed duration")

// durationPattern matches "H:MM:SS", "H:MM", optionally prefixed by a day
// count as written by spreadsheets and dataframes ("-1 day, 23:50:00",
// "0 days 00:45:00").
var durationPattern = regexp.MustCompile(`^(?:([+-]?\d+)\s+days?,?\s+)?(\d+):(\d{1,2})(?::(\d{1,2})(\.\d+)?)?$`)

// FormatDuration renders d the way stored rows carry durations: "H:MM:SS",
// with a leading "N day(s), " component when d is negative or spans a day.
// Sub-second precision is dropped.
func FormatDuration(d time.Duration) string {
	total := int64(math.Floor(d.Seconds()))
	days := total / secondsPerDay
	rem := total % secondsPerDay
	if rem < 0 {
		rem += secondsPerDay
		days--
	}
	clock := fmt.Sprintf("%d:%02d:%02d", rem/3600, (rem%3600)/60, rem%60)
	if days == 0 {
		return clock
	}
	unit := "days"
	if days == 1 || days == -1 {
		unit = "day"
	}
	return fmt.Sprintf("%d %s, %s", days, unit, clock)
}

// ParseDuration parses a stored duration cell. Empty cells and the literal
// "nan"/"NaT" markers are malformed.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "nat", "none", "null":
		return 0, fmt.Errorf("%w: %q", ErrBadDuration, s)
	}

	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		// Go-style durations ("1h2m3s") are accepted as a last resort.
		if d, err := time.ParseDuration(s); err == nil && withinBound(d) {
			return d, nil
		}
		return 0, fmt.Errorf("%w: %q", ErrBadDuration, s)
	}

	bad := fmt.Errorf("%w: %q", ErrBadDuration, s)
	var days, seconds int64
	if m[1] != "" {
		v, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil || v < -1 || v > 1 {
			return 0, bad
		}
		days = v
	}
	hours, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil || hours > 24 {
		return 0, bad
	}
	minutes, err := strconv.ParseInt(m[3], 10, 64)
	if err != nil || minutes > 59 {
		return 0, bad
	}
	if m[4] != "" {
		if seconds, err = strconv.ParseInt(m[4], 10, 64); err != nil || seconds > 59 {
			return 0, bad
		}
	}

	total := time.Duration(days*secondsPerDay+hours*3600+minutes*60+seconds) * time.Second
	if m[5] != "" {
		frac, err := strconv.ParseFloat("0"+m[5], 64)
		if err != nil {
			return 0, bad
		}
		total += time.Duration(frac * float64(time.Second))
	}
	if !withinBound(total) {
		return 0, bad
	}
	return total, nil
}

func withinBound(d time.Duration) bool {
	return d >= -MaxStoredDuration && d <= MaxStoredDuration
}

// FormatClock renders a non-negative duration as zero-padded "HH:MM:SS" for
// display.
func FormatClock(d time.Duration) string {
	neg := d < 0
	if neg {
		d = -d
	}
	total := int64(d / time.Second)
	out := fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
	if neg {
		return "-" + out
	}
	return out
}

// ParseClock parses an "HH:MM" time of day and returns its offset from
// midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// ClockString renders an offset from midnight as "HH:MM".
func ClockString(offset time.Duration) string {
	minutes := int64(offset / time.Minute)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

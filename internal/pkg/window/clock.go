package window

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Minute is a time of day expressed in whole minutes since midnight.
// Values outside 0..1439 can appear when a window is shifted across midnight.
type Minute int

const MinutesPerDay Minute = 24 * 60

// ParseClock parses "HH:MM" or "HH:MM:SS". Seconds are accepted and dropped.
func ParseClock(s string) (Minute, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid clock %q: expected HH:MM", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid clock %q: hour out of range", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid clock %q: minute out of range", s)
	}
	if len(parts) == 3 {
		sec, err := strconv.Atoi(parts[2])
		if err != nil || sec < 0 || sec > 59 {
			return 0, fmt.Errorf("invalid clock %q: second out of range", s)
		}
	}

	return Minute(hour*60 + minute), nil
}

// MustParseClock is ParseClock for literals.
func MustParseClock(s string) Minute {
	m, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return m
}

// MinuteOf returns the minute of day of t in t's own location.
func MinuteOf(t time.Time) Minute {
	return Minute(t.Hour()*60 + t.Minute())
}

func (m Minute) String() string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	return fmt.Sprintf("%s%02d:%02d", sign, int(m)/60, int(m)%60)
}

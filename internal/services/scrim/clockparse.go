package scrim

import (
	"strconv"
	"strings"
	"time"
)

// ParseClock reads an organizer-supplied start time like "14:00", "14.00"
// or "1400" and resolves it to the next occurrence in the given location:
// today if still ahead of now, otherwise tomorrow.
func ParseClock(input string, now time.Time, loc *time.Location) (time.Time, error) {
	hour, minute, err := splitClock(strings.TrimSpace(input))
	if err != nil {
		return time.Time{}, err
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, ErrInvalidTime
	}

	local := now.In(loc)
	t := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !t.After(now) {
		t = t.AddDate(0, 0, 1)
	}
	return t, nil
}

func splitClock(input string) (int, int, error) {
	for _, sep := range []string{":", "."} {
		if strings.Contains(input, sep) {
			parts := strings.SplitN(input, sep, 2)
			return clockParts(parts[0], parts[1])
		}
	}
	if len(input) == 4 {
		return clockParts(input[:2], input[2:])
	}
	if len(input) == 3 {
		return clockParts(input[:1], input[1:])
	}
	return 0, 0, ErrInvalidTime
}

func clockParts(h, m string) (int, int, error) {
	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, 0, ErrInvalidTime
	}
	minute, err := strconv.Atoi(m)
	if err != nil {
		return 0, 0, ErrInvalidTime
	}
	return hour, minute, nil
}

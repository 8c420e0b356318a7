package timeout

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var durationPart = regexp.MustCompile(`^(\d+)([dhm])$`)

// ParseDuration parses a human duration like "1d 5h 30m". Units may
// appear in any order, each at most once. The result must be positive.
func ParseDuration(input string) (time.Duration, error) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return 0, ErrInvalidDuration
	}

	seen := make(map[string]struct{}, 3)
	var total time.Duration
	for _, part := range parts {
		match := durationPart.FindStringSubmatch(part)
		if match == nil {
			return 0, ErrInvalidDuration
		}
		unit := match[2]
		if _, ok := seen[unit]; ok {
			return 0, ErrInvalidDuration
		}
		seen[unit] = struct{}{}

		n, err := strconv.Atoi(match[1])
		if err != nil {
			return 0, ErrInvalidDuration
		}
		switch unit {
		case "d":
			total += time.Duration(n) * 24 * time.Hour
		case "h":
			total += time.Duration(n) * time.Hour
		case "m":
			total += time.Duration(n) * time.Minute
		}
	}

	if total <= 0 {
		return 0, ErrNonPositiveDuration
	}
	return total, nil
}

// FormatDuration renders a duration the way ParseDuration reads it,
// dropping zero components.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0m"
	}

	days := int(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	hours := int(d / time.Hour)
	d -= time.Duration(hours) * time.Hour
	minutes := int(d / time.Minute)

	parts := make([]string, 0, 3)
	if days > 0 {
		parts = append(parts, strconv.Itoa(days)+"d")
	}
	if hours > 0 {
		parts = append(parts, strconv.Itoa(hours)+"h")
	}
	if minutes > 0 || len(parts) == 0 {
		parts = append(parts, strconv.Itoa(minutes)+"m")
	}
	return strings.Join(parts, " ")
}

package scrim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseClock(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Helsinki")
	assert.NoError(t, err)
	now := time.Date(2025, 4, 5, 18, 0, 0, 0, loc)

	testCases := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{
			name:     "colon separator",
			input:    "21:30",
			expected: time.Date(2025, 4, 5, 21, 30, 0, 0, loc),
		},
		{
			name:     "dot separator",
			input:    "21.30",
			expected: time.Date(2025, 4, 5, 21, 30, 0, 0, loc),
		},
		{
			name:     "compact",
			input:    "2130",
			expected: time.Date(2025, 4, 5, 21, 30, 0, 0, loc),
		},
		{
			name:     "compact three digits",
			input:    "930",
			expected: time.Date(2025, 4, 6, 9, 30, 0, 0, loc),
		},
		{
			name:     "earlier time rolls to tomorrow",
			input:    "12:00",
			expected: time.Date(2025, 4, 6, 12, 0, 0, 0, loc),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseClock(tc.input, now, loc)
			assert.NoError(t, err)
			assert.True(t, got.Equal(tc.expected), "got %v, expected %v", got, tc.expected)
		})
	}
}

func TestParseClockZoneOverride(t *testing.T) {
	server, err := time.LoadLocation("Europe/Helsinki")
	assert.NoError(t, err)
	local, err := time.LoadLocation("America/New_York")
	assert.NoError(t, err)
	now := time.Date(2025, 4, 5, 18, 0, 0, 0, server)

	// 14:00 in New York is still ahead of 18:00 Helsinki, so the scrim
	// lands on the same day
	got, err := ParseClock("14:00", now, local)
	assert.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 4, 5, 14, 0, 0, 0, local)), "got %v", got)
	assert.Equal(t, 21, got.In(server).Hour())

	// 10:00 in New York has already passed and rolls to tomorrow
	got, err = ParseClock("10:00", now, local)
	assert.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 4, 6, 10, 0, 0, 0, local)), "got %v", got)
}

func TestParseClockInvalid(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 4, 5, 18, 0, 0, 0, loc)

	for _, input := range []string{"", "late", "25:00", "12:75", "12", "12345", "ab:cd"} {
		_, err := ParseClock(input, now, loc)
		assert.ErrorIs(t, err, ErrInvalidTime, "input %q", input)
	}
}

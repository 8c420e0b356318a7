package timeout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected time.Duration
		err      error
	}{
		{
			name:     "full grammar",
			input:    "1d 5h 30m",
			expected: 29*time.Hour + 30*time.Minute,
		},
		{
			name:     "single unit",
			input:    "45m",
			expected: 45 * time.Minute,
		},
		{
			name:     "reordered units",
			input:    "30m 2h",
			expected: 2*time.Hour + 30*time.Minute,
		},
		{
			name:  "empty",
			input: "",
			err:   ErrInvalidDuration,
		},
		{
			name:  "unknown unit",
			input: "3w",
			err:   ErrInvalidDuration,
		},
		{
			name:  "repeated unit",
			input: "1h 2h",
			err:   ErrInvalidDuration,
		},
		{
			name:  "missing unit",
			input: "90",
			err:   ErrInvalidDuration,
		},
		{
			name:  "negative via zero",
			input: "0m",
			err:   ErrNonPositiveDuration,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDuration(tc.input)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1d 5h 30m", FormatDuration(29*time.Hour+30*time.Minute))
	assert.Equal(t, "45m", FormatDuration(45*time.Minute))
	assert.Equal(t, "2h", FormatDuration(2*time.Hour))
	assert.Equal(t, "0m", FormatDuration(0))
}

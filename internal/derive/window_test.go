package derive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 14, hour, minute, 0, 0, time.UTC)
}

func TestWithinWindow(t *testing.T) {
	cases := []struct {
		name  string
		start string
		end   string
		now   time.Time
		want  bool
	}{
		{"inside", "09:00", "17:00", at(10, 0), true},
		{"before start", "09:00", "17:00", at(8, 59), false},
		{"after end", "09:00", "17:00", at(20, 0), false},
		{"start bound inclusive", "09:00", "17:00", at(9, 0), true},
		{"end bound inclusive", "09:00", "17:00", at(17, 0), true},
		{"one past end", "09:00", "17:00", at(17, 1), false},
		{"minute precision", "09:30", "17:00", at(9, 29), false},
		{"zero-length window", "12:00", "12:00", at(12, 0), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, WithinWindow(tc.start, tc.end, tc.now))
		})
	}
}

// Overnight windows do not wrap midnight: end before start always
// evaluates unavailable, even at hours that would fall inside a
// wrapped interpretation.
func TestWithinWindowOvernightUnsupported(t *testing.T) {
	assert.False(t, WithinWindow("22:00", "06:00", at(23, 0)))
	assert.False(t, WithinWindow("22:00", "06:00", at(2, 0)))
	assert.False(t, WithinWindow("22:00", "06:00", at(12, 0)))
}

func TestWithinWindowMalformedBounds(t *testing.T) {
	assert.False(t, WithinWindow("", "17:00", at(10, 0)))
	assert.False(t, WithinWindow("09:00", "", at(10, 0)))
	assert.False(t, WithinWindow("9am", "5pm", at(10, 0)))
	assert.False(t, WithinWindow("25:00", "26:00", at(10, 0)))
	assert.False(t, WithinWindow("09:61", "17:00", at(10, 0)))
}

package derive

import (
	"strconv"
	"strings"
	"time"
)

// WithinWindow reports whether now's wall-clock time falls inside the
// [start, end] availability window, both bounds inclusive, compared as
// minutes since midnight. Bounds are "HH:MM" strings as the desk stores
// them; an unparseable bound makes the window never match.
//
// Windows do not wrap midnight: end before start always evaluates
// unavailable. Overnight shifts are not a desk concept.
func WithinWindow(start, end string, now time.Time) bool {
	startMinutes, ok := parseWallClock(start)
	if !ok {
		return false
	}
	endMinutes, ok := parseWallClock(end)
	if !ok {
		return false
	}

	nowMinutes := now.Hour()*60 + now.Minute()
	return nowMinutes >= startMinutes && nowMinutes <= endMinutes
}

// parseWallClock converts "HH:MM" into minutes since midnight.
func parseWallClock(value string) (int, bool) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}

package store

import (
	"strconv"
	"strings"
	"time"
)

// IsOpenAt checks "HH:MM-HH:MM" business hours against the wall clock of now.
// Missing or unreadable hours count as open. A close time before the open
// time wraps past midnight.
func IsOpenAt(hours *string, now time.Time) bool {
	if hours == nil {
		return true
	}

	from, to, ok := strings.Cut(*hours, "-")
	if !ok {
		return true
	}

	start, ok1 := minuteOfDay(from)
	end, ok2 := minuteOfDay(to)
	if !ok1 || !ok2 {
		return true
	}

	cur := now.Hour()*60 + now.Minute()
	if end >= start {
		return cur >= start && cur <= end
	}
	return cur >= start || cur <= end
}

// minuteOfDay parses "HH:MM" or a bare "HH".
func minuteOfDay(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	hh, mm, _ := strings.Cut(s, ":")
	h, err := strconv.Atoi(strings.TrimSpace(hh))
	if err != nil || h < 0 || h > 24 {
		return 0, false
	}

	m := 0
	if mm = strings.TrimSpace(mm); mm != "" {
		m, err = strconv.Atoi(mm)
		if err != nil || m < 0 || m > 59 {
			return 0, false
		}
	}
	return h*60 + m, true
}

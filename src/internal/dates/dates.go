package dates

import (
	"fmt"
	"strings"
	"time"
)

// YearFromDate parses the first 4 characters of a YYYY or YYYY-MM-DD string.
func YearFromDate(date string) int {
	date = strings.TrimSpace(date)
	if len(date) >= 4 {
		var y int
		if _, err := fmt.Sscanf(date[:4], "%d", &y); err == nil {
			return y
		}
	}
	return 0
}

// ExtractYear scans a string and returns a plausible 4-digit year if found.
func ExtractYear(s string) int {
	s = strings.TrimSpace(s)
	for i := 0; i+4 <= len(s); i++ {
		var y int
		if _, err := fmt.Sscanf(s[i:i+4], "%d", &y); err == nil {
			if y >= 1000 && y <= time.Now().Year()+1 {
				return y
			}
		}
	}
	return 0
}

// FromParts turns CSL date-parts ([year, month, day], any prefix) into a year
// and, when a month is known, a YYYY-MM-DD date (day defaults to 01).
func FromParts(parts []int) (int, string) {
	switch {
	case len(parts) == 0:
		return 0, ""
	case len(parts) >= 3:
		return parts[0], fmt.Sprintf("%04d-%02d-%02d", parts[0], parts[1], parts[2])
	case len(parts) == 2:
		return parts[0], fmt.Sprintf("%04d-%02d-01", parts[0], parts[1])
	}
	return parts[0], ""
}

// DateOnly truncates an RFC 3339 timestamp to its YYYY-MM-DD date part.
func DateOnly(ts string) string {
	ts = strings.TrimSpace(ts)
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t.UTC().Format("2006-01-02")
	}
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}

package service

import (
	"regexp"
	"strings"
	"time"

	"taskflow/internal/stats"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// validDate accepts YYYY-MM-DD strings naming a real calendar day.
func validDate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(stats.DateLayout, s)
	return err == nil
}

// validClock accepts HH:MM and HH:MM:SS.
func validClock(s string) bool {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// present treats a nil pointer and an empty string alike: no value supplied.
func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

package prayer

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ValidTime reports whether s is a zero-padded 24-hour "HH:MM" string.
func ValidTime(s string) bool {
	return timePattern.MatchString(s)
}

// TimeToken extracts the time-of-day token from an API timing value,
// dropping suffixes like " (BST)" or " (+03)".
func TimeToken(raw string) string {
	s := strings.TrimSpace(raw)
	if idx := strings.IndexAny(s, " ("); idx != -1 {
		s = s[:idx]
	}
	return s
}

// To12Hour converts a 24-hour "HH:MM" string to "hh:MM AM/PM" display form.
// Invalid input is returned unchanged so a bad upstream value degrades to
// showing the raw string rather than an error in the widget.
func To12Hour(time24 string) string {
	if time24 == "" {
		return ""
	}
	t, err := time.Parse("15:04", time24)
	if err != nil {
		return time24
	}
	return t.Format("03:04 PM")
}

// Countdown returns a human-readable duration from now until the next
// occurrence of the wall-clock target "HH:MM" (today, or tomorrow if the
// time has already passed). Formats as "Xh Ym", or "Ym" under an hour.
// Returns "" for an unparseable target.
func Countdown(target string, now time.Time) string {
	t, err := time.Parse("15:04", target)
	if err != nil {
		return ""
	}

	at := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
	if !at.After(now) {
		at = at.AddDate(0, 0, 1)
	}

	d := at.Sub(now)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// NextInstant resolves the wall-clock target "HH:MM" to the next absolute
// instant at-or-after now's date: today if still in the future, else
// tomorrow. This is the instant handed to the notification scheduler.
func NextInstant(target string, now time.Time) (time.Time, error) {
	t, err := time.Parse("15:04", target)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", target, err)
	}

	at := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
	if !at.After(now) {
		at = at.AddDate(0, 0, 1)
	}
	return at, nil
}

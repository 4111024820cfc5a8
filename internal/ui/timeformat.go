package ui

import (
	"fmt"
	"time"
)

var timeNow = time.Now

// formatPublished renders a release date followed by a compact relative age,
// e.g. "2022-03-01 (5d ago)".
func formatPublished(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02") + " (" + relativeAge(t, timeNow()) + ")"
}

func relativeAge(t, now time.Time) string {
	if t.After(now) {
		return "upcoming"
	}
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff/time.Minute))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff/time.Hour))
	case diff < 365*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff/(24*time.Hour)))
	default:
		return fmt.Sprintf("%dy ago", int(diff/(365*24*time.Hour)))
	}
}

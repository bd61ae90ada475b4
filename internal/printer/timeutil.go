package printer

import (
	"fmt"
	"time"
)

// TimeAgo returns a human-readable relative time string.
// Examples: "just now", "2 minutes ago", "3 hours ago", "5 days ago".
func TimeAgo(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < 0:
		return "in the future"
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute") + " ago"
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour") + " ago"
	}

	return plural(int(diff.Hours()/24), "day") + " ago"
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// FormatTimestamp returns a formatted local timestamp.
// Format: "2006-01-02 15:04".
func FormatTimestamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

package crawl

import (
	"fmt"
	"math"
	"time"
)

// FormatDuration formats an execution time for the run summary:
// "850ms", "12.34s", "3m 7.5s" or "1h 2m 3s".
func FormatDuration(d time.Duration) string {
	seconds := d.Seconds()
	switch {
	case seconds < 1:
		return fmt.Sprintf("%.0fms", seconds*1000)
	case seconds < 60:
		return fmt.Sprintf("%.2fs", seconds)
	case seconds < 3600:
		minutes := math.Floor(seconds / 60)
		return fmt.Sprintf("%dm %.1fs", int(minutes), seconds-minutes*60)
	default:
		hours := math.Floor(seconds / 3600)
		rest := seconds - hours*3600
		minutes := math.Floor(rest / 60)
		return fmt.Sprintf("%dh %dm %.0fs", int(hours), int(minutes), rest-minutes*60)
	}
}

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

package utils

import (
	"fmt"
	"strings"
)

// TruncateForLog shortens the provided string to the specified limit, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// FormatScore renders a score for display with one decimal. A nil score prints as "-".
func FormatScore(score *float64) string {
	if score == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *score)
}

// FormatDelta renders a signed adjustment, e.g. "+10" or "-15".
func FormatDelta(delta float64) string {
	return fmt.Sprintf("%+.4g", delta)
}

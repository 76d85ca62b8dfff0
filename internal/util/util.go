// Package util holds small formatting helpers shared by the commands.
package util

import (
	"fmt"
	"time"
)

// FormatDuration formats duration into human readable format (e.g., "1h30m", "5m10s", "45s", "350ms").
func FormatDuration(duration time.Duration) string {
	if duration < time.Second {
		return fmt.Sprintf("%dms", duration.Milliseconds())
	}

	duration = duration.Round(time.Second)

	if duration < time.Minute {
		return fmt.Sprintf("%ds", int(duration.Seconds()))
	}

	if duration < time.Hour {
		m := int(duration.Minutes())
		s := int(duration.Seconds()) % 60

		return fmt.Sprintf("%dm%ds", m, s)
	}

	h := int(duration.Hours())
	m := int(duration.Minutes()) % 60

	return fmt.Sprintf("%dh%dm", h, m)
}

// FormatRate formats records per second, "-" when nothing elapsed.
func FormatRate(records int64, elapsed time.Duration) string {
	if elapsed <= 0 {
		return "-"
	}

	return fmt.Sprintf("%.1f rec/s", float64(records)/elapsed.Seconds())
}

package render

import (
	"fmt"
	"time"
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB"}

// FormatSize formats bytes to a human readable string, one decimal below 10
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}
	n := float64(bytes)
	i := 0
	for n >= 1024 && i < len(sizeUnits)-1 {
		n /= 1024
		i++
	}
	if n < 10 {
		return fmt.Sprintf("%.1f %s", n, sizeUnits[i])
	}
	return fmt.Sprintf("%.0f %s", n, sizeUnits[i])
}

// FormatDate formats a modification time as YYYY-MM-DD, or "" when unknown
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02")
}

package utils

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func StripANSI(input string) string {
	return ansiPattern.ReplaceAllString(input, "")
}

func GetMaxWidth(lines []string) int {
	maxWidth := 0
	for _, line := range lines {
		length := len([]rune(StripANSI(line)))
		if length > maxWidth {
			maxWidth = length
		}
	}
	return maxWidth
}

// HumanSize formats n bytes with binary units (KiB, MiB, ...).
func HumanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// OrDash renders empty values as "-" in tables.
func OrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func bytesReader(b []byte) io.Reader { return bytes.NewReader(b) }

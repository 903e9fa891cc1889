package render

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	ColorReset   = "\x1b[0m"
	ColorRed     = "\x1b[1;31m"
	ColorYellow  = "\x1b[1;33m"
	ColorCyan    = "\x1b[1;36m"
	colorReverse = "\x1b[7m"
)

var (
	binaryPrefixes = []string{"K", "M", "G", "T"}
	siPrefixes     = []string{"k", "M", "G", "T"}
)

// FormatBytes форматирует число байт с двоичными приставками: "229.1 KB".
func FormatBytes(v uint64) string {
	return formatPrefixed(float64(v), 1024, binaryPrefixes, "B", 1)
}

// FormatBits форматирует скорость с приставками СИ: "1.50 Mb/s".
func FormatBits(v float64) string {
	return formatPrefixed(v, 1000, siPrefixes, "b/s", 2)
}

func formatPrefixed(v, base float64, prefixes []string, unit string, decimals int) string {
	if v < base {
		return fmt.Sprintf("%.0f %s", v, unit)
	}
	prefix := ""
	for _, p := range prefixes {
		if v < base {
			break
		}
		v /= base
		prefix = p
	}
	return fmt.Sprintf("%.*f %s%s", decimals, v, prefix, unit)
}

// Title центрирует " title " в строке из псевдографических черт.
func Title(title string, columns int) string {
	text := " " + title + " "
	n := utf8.RuneCountInString(text)
	if n >= columns {
		return text
	}
	left := (columns - n) / 2
	right := columns - n - left
	return strings.Repeat("─", left) + text + strings.Repeat("─", right)
}

// Ellipsis обрезает s до limit рун.
func Ellipsis(s string, limit int) string {
	if limit < 1 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}

// padRight дополняет s пробелами до width рун.
func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// padLeft выравнивает s по правому краю в width рун.
func padLeft(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return strings.Repeat(" ", width-n) + s
}

func maxWidth(values []string) int {
	width := 0
	for _, v := range values {
		if n := utf8.RuneCountInString(v); n > width {
			width = n
		}
	}
	return width
}

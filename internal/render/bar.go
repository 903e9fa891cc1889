package render

import (
	"fmt"
	"strings"
)

// minBarPadding это место вокруг текста полосы вместе с рамкой.
const minBarPadding = 4

// Bar рисует полосу использования длиной length колонок с текстом по
// центру. Часть текста поверх заполненной области выводится
// в инверсии.
func (r *Renderer) Bar(used, total uint64, length int, color string) string {
	var frac float64
	if total > 0 {
		frac = float64(used) / float64(total)
	}
	text := fmt.Sprintf("%s / %s (%.1f%%)", FormatBytes(used), FormatBytes(total), 100*frac)
	if length < len(text)+minBarPadding {
		length = len(text) + minBarPadding
	}

	inner := length - 2
	filled := int(float64(inner) * frac)
	if filled > inner {
		filled = inner
	}
	before := (inner - len(text)) / 2
	after := before + len(text)

	pos1 := min(filled, before)
	pos3 := max(before, min(filled, after))
	pos5 := max(filled, after)

	var sb strings.Builder
	sb.WriteString(r.paint(color, "▕"))
	sb.WriteString(r.paint(color, strings.Repeat("█", pos1)))
	sb.WriteString(r.paint(color, strings.Repeat(" ", before-pos1)))
	sb.WriteString(r.paint(color+colorReverse, text[:pos3-before]))
	sb.WriteString(r.paint(color, text[pos3-before:]))
	sb.WriteString(r.paint(color, strings.Repeat("█", pos5-after)))
	sb.WriteString(r.paint(color, strings.Repeat(" ", inner-pos5)))
	sb.WriteString(r.paint(color, "▏"))
	return sb.String()
}

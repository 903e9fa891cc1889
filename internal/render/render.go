// Package render превращает снимок сбора в баннер при входе.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"motd/internal/collector"
	"motd/internal/metric"
)

const (
	// FallbackColumns используется, если ширину терминала определить не удалось
	FallbackColumns = 80

	minUsageBarLen = 30
)

var titles = map[metric.Family]string{
	metric.Load:             "Load",
	metric.Memory:           "Memory usage",
	metric.Swap:             "Swap usage",
	metric.Filesystem:       "Filesystem usage",
	metric.Temperature:      "Hardware temperatures",
	metric.NetworkInterface: "Network",
	metric.FailedUnit:       "Systemd failed units",
}

// SectionTitle возвращает человекочитаемое имя семейства.
func SectionTitle(f metric.Family) string {
	if t, ok := titles[f]; ok {
		return t
	}
	return f.String()
}

// Options управляют раскладкой баннера.
type Options struct {
	Columns  int
	NoTitles bool
	Color    bool
}

// Renderer пишет разделы в out, а ошибки сбора в errOut.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	opts   Options
}

// New создает новый рендерер.
func New(out, errOut io.Writer, opts Options) *Renderer {
	if opts.Columns <= 0 {
		opts.Columns = FallbackColumns
	}
	return &Renderer{
		out:    out,
		errOut: errOut,
		opts:   opts,
	}
}

// Render выводит все разделы снимка. Упавшие семейства выводятся
// в errOut, пустые семейства пропускаются.
func (r *Renderer) Render(s *collector.Snapshot) error {
	for _, res := range s.Results {
		if err := r.Section(res); err != nil {
			return err
		}
	}
	return nil
}

// Section выводит одно семейство.
func (r *Renderer) Section(res collector.Result) error {
	title := SectionTitle(res.Family)
	if res.Err != nil {
		_, err := fmt.Fprintln(r.errOut, r.paint(ColorRed,
			fmt.Sprintf("Failed to get data for '%s' section: %v", title, res.Err)))
		return err
	}

	lines := r.Lines(res)
	if len(lines) == 0 {
		return nil
	}

	var sb strings.Builder
	if !r.opts.NoTitles {
		sb.WriteString(Title(title, r.opts.Columns))
		sb.WriteByte('\n')
	}
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(r.out, sb.String())
	return err
}

// Lines форматирует показания одного успешного семейства.
func (r *Renderer) Lines(res collector.Result) []string {
	switch res.Family {
	case metric.Load:
		return r.loadLines(res)
	case metric.Memory, metric.Swap, metric.Filesystem:
		return r.usageLines(res.Readings)
	case metric.Temperature:
		return r.temperatureLines(res.Readings)
	case metric.NetworkInterface:
		return r.networkLines(res.Readings)
	case metric.FailedUnit:
		return r.unitLines(res.Readings)
	default:
		return nil
	}
}

func (r *Renderer) loadLines(res collector.Result) []string {
	if len(res.Readings) == 0 {
		return nil
	}

	parts := make([]string, 0, len(res.Readings))
	for _, reading := range res.Readings {
		parts = append(parts, fmt.Sprintf("%s: %s", reading.Label,
			r.paint(severityColor(reading.Severity), fmt.Sprintf("%.2f", reading.Value))))
	}
	lines := []string{"Load avg " + strings.Join(parts, ", ")}
	if res.Tasks > 0 {
		lines = append(lines, fmt.Sprintf("Tasks: %d", res.Tasks))
	}
	return lines
}

func (r *Renderer) usageLines(readings []metric.Reading) []string {
	if len(readings) == 0 {
		return nil
	}

	labelLimit := r.opts.Columns - 1 - minUsageBarLen
	labels := make([]string, len(readings))
	for i, reading := range readings {
		labels[i] = Ellipsis(reading.Label, labelLimit)
	}
	width := maxWidth(labels)
	barLen := max(r.opts.Columns-width-1, minUsageBarLen)

	lines := make([]string, 0, len(readings))
	for i, reading := range readings {
		color := severityColor(reading.Severity)
		lines = append(lines, r.paint(color, padRight(labels[i], width))+" "+
			r.Bar(reading.Used, reading.Total, barLen, color))
	}
	return lines
}

func (r *Renderer) temperatureLines(readings []metric.Reading) []string {
	labels := make([]string, len(readings))
	for i, reading := range readings {
		labels[i] = reading.Label + ":"
	}
	width := maxWidth(labels)

	lines := make([]string, 0, len(readings))
	for i, reading := range readings {
		// Целые градусы с отбрасыванием дробной части, чтобы значение ниже порога не печаталось как порог
		line := fmt.Sprintf("%s %.0f °C", padRight(labels[i], width), math.Floor(reading.Value))
		lines = append(lines, r.paint(severityColor(reading.Severity), line))
	}
	return lines
}

func (r *Renderer) networkLines(readings []metric.Reading) []string {
	names := make([]string, len(readings))
	rx := make([]string, len(readings))
	tx := make([]string, len(readings))
	for i, reading := range readings {
		names[i] = reading.Label + ":"
		rx[i] = FormatBits(reading.RxBps)
		tx[i] = FormatBits(reading.TxBps)
	}
	nameWidth, rxWidth, txWidth := maxWidth(names), maxWidth(rx), maxWidth(tx)

	lines := make([]string, 0, len(readings))
	for i := range readings {
		lines = append(lines, fmt.Sprintf("%s ↓ %s  ↑ %s",
			padRight(names[i], nameWidth), padLeft(rx[i], rxWidth), padLeft(tx[i], txWidth)))
	}
	return lines
}

func (r *Renderer) unitLines(readings []metric.Reading) []string {
	lines := make([]string, 0, len(readings))
	for _, reading := range readings {
		lines = append(lines, r.paint(severityColor(reading.Severity), reading.Label))
	}
	return lines
}

func severityColor(s metric.Severity) string {
	switch s {
	case metric.Critical:
		return ColorRed
	case metric.Warning:
		return ColorYellow
	default:
		return ""
	}
}

// paint оборачивает s в ANSI последовательность, если цвета включены.
func (r *Renderer) paint(code, s string) string {
	if !r.opts.Color || code == "" || s == "" {
		return s
	}
	return code + s + ColorReset
}

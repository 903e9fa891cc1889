package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/common-nighthawk/go-figure"

	"motd/internal/collector"
)

// Header выводит имя хоста ASCII артом и однострочную сводку по хосту.
func (r *Renderer) Header(info collector.HostInfo) error {
	var sb strings.Builder

	if info.Hostname != "" {
		fig := figure.NewFigure(info.Hostname, "", true)
		for _, line := range fig.Slicify() {
			if strings.TrimSpace(line) == "" {
				continue
			}
			sb.WriteString(r.paint(ColorCyan, line))
			sb.WriteByte('\n')
		}
	}

	var parts []string
	if info.Platform != "" {
		parts = append(parts, strings.TrimSpace(info.Platform+" "+info.PlatformVersion))
	}
	if info.Kernel != "" {
		parts = append(parts, "kernel "+info.Kernel)
	}
	if info.Uptime > 0 {
		parts = append(parts, "up "+FormatUptime(info.Uptime))
	}
	if len(parts) > 0 {
		sb.WriteString(strings.Join(parts, ", "))
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(r.out, sb.String())
	return err
}

// FormatUptime форматирует длительность как "3d 4h 12m".
func FormatUptime(d time.Duration) string {
	d = d.Truncate(time.Minute)
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

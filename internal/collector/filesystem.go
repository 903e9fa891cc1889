package collector

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"motd/internal/filter"
	"motd/internal/metric"
)

// collectFilesystems возвращает одно показание на смонтированный том.
// Повторные монтирования устройства (bind, подтома btrfs) пропускаются,
// как и ФС с нулевым объемом.
func (c *Collector) collectFilesystems(ctx context.Context, t metric.Thresholds) (*batch, error) {
	if c.src.Mounts == nil {
		return nil, fmt.Errorf("filesystem: %w", errNoSource)
	}

	mounts, err := c.src.Mounts.Mounts(ctx)
	if err != nil {
		return nil, err
	}

	b := newBatch(metric.Filesystem)
	seen := make(map[string]bool)
	for _, m := range mounts {
		if c.opts.Rules.Excludes(filter.MountType, m.Type) ||
			c.opts.Rules.Excludes(filter.MountPath, m.Path) {
			continue
		}
		// Том определяют только настоящие блочные устройства, а не "none" или "tmpfs"
		if strings.HasPrefix(m.Device, "/") {
			if seen[m.Device] {
				continue
			}
			seen[m.Device] = true
		}

		u, err := c.src.Mounts.Usage(ctx, m.Path)
		if err != nil {
			b.drop(m.Path, err)
			continue
		}
		if u.Total == 0 {
			continue
		}
		b.add(usageReading(metric.Filesystem, m.Path, u, t))
	}

	sort.SliceStable(b.readings, func(i, j int) bool {
		return b.readings[i].Label < b.readings[j].Label
	})
	return b, nil
}

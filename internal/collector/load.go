package collector

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"motd/internal/metric"
)

func (c *Collector) collectLoad(ctx context.Context, t metric.Thresholds) (*batch, error) {
	if c.src.Load == nil {
		return nil, fmt.Errorf("load: %w", errNoSource)
	}

	t.CPUCount = c.cpuCount(ctx)

	avg, err := c.src.Load.Averages(ctx)
	if err != nil {
		return nil, err
	}

	b := newBatch(metric.Load)
	for _, p := range []struct {
		label string
		value float64
	}{
		{"1min", avg.Load1},
		{"5min", avg.Load5},
		{"15min", avg.Load15},
	} {
		b.add(metric.Reading{
			Label:    p.label,
			Value:    p.value,
			Severity: metric.Classify(metric.Load, p.value, t),
		})
	}
	b.tasks = avg.Tasks
	return b, nil
}

// cpuCount вызывается только воркером нагрузки, чтобы медленный запрос
// задерживал лишь это семейство. Без ответа нагрузка классифицируется
// относительно одного CPU.
func (c *Collector) cpuCount(ctx context.Context) int {
	n, err := c.src.Load.CPUCount(ctx)
	if err != nil || n <= 0 {
		c.logger.Warn("Failed to count CPUs, assuming one",
			zap.Int("count", n),
			zap.Error(err))
		return metric.DefaultCPUCount
	}
	return n
}

package collector

import (
	"context"
	"fmt"

	"motd/internal/metric"
)

func (c *Collector) collectMemory(ctx context.Context, t metric.Thresholds) (*batch, error) {
	if c.src.Memory == nil {
		return nil, fmt.Errorf("memory: %w", errNoSource)
	}

	u, err := c.src.Memory.Memory(ctx)
	if err != nil {
		return nil, err
	}

	b := newBatch(metric.Memory)
	if u.Total > 0 {
		b.add(usageReading(metric.Memory, "RAM", u, t))
	}
	return b, nil
}

// collectSwap ничего не сообщает на хостах без подкачки.
func (c *Collector) collectSwap(ctx context.Context, t metric.Thresholds) (*batch, error) {
	if c.src.Memory == nil {
		return nil, fmt.Errorf("swap: %w", errNoSource)
	}

	u, err := c.src.Memory.Swap(ctx)
	if err != nil {
		return nil, err
	}

	b := newBatch(metric.Swap)
	if u.Total > 0 {
		b.add(usageReading(metric.Swap, "Swap", u, t))
	}
	return b, nil
}

func usageReading(family metric.Family, label string, u Usage, t metric.Thresholds) metric.Reading {
	r := metric.Reading{
		Family: family,
		Label:  label,
		Used:   u.Used,
		Total:  u.Total,
	}
	r.Value = r.Fraction()
	r.Severity = metric.Classify(family, r.Value, t)
	return r
}

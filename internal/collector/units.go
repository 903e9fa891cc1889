package collector

import (
	"context"
	"fmt"

	"motd/internal/filter"
	"motd/internal/metric"
)

func (c *Collector) collectUnits(ctx context.Context, t metric.Thresholds) (*batch, error) {
	if c.src.Units == nil {
		return nil, fmt.Errorf("failed units: %w", errNoSource)
	}

	units, err := c.src.Units.FailedUnits(ctx)
	if err != nil {
		return nil, err
	}

	b := newBatch(metric.FailedUnit)
	for _, name := range units {
		if c.opts.Rules.Excludes(filter.Unit, name) {
			continue
		}
		b.add(metric.Reading{
			Label:    name,
			Value:    1,
			Severity: metric.Classify(metric.FailedUnit, 1, t),
		})
	}
	return b, nil
}

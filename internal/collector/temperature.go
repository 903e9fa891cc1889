package collector

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"motd/internal/filter"
	"motd/internal/metric"
)

// collectTemperatures обходит все источники датчиков. Источник, который не
// удалось перечислить, пропускается; семейство падает, только если упали все.
func (c *Collector) collectTemperatures(ctx context.Context, t metric.Thresholds) (*batch, error) {
	b := newBatch(metric.Temperature)

	var errs error
	failed := 0
	for _, src := range c.src.Sensors {
		list, err := src.Sensors(ctx)
		if err != nil {
			failed++
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			c.logger.Debug("Sensor source unavailable",
				zap.String("source", src.Name()),
				zap.Error(err))
			continue
		}

		for _, s := range list {
			if c.opts.Rules.Excludes(filter.SensorLabel, s.Label) {
				continue
			}
			v, err := src.Read(ctx, s)
			if err != nil {
				b.drop(s.Label, err)
				continue
			}
			b.add(metric.Reading{
				Label:    s.Label,
				Value:    v.Celsius,
				Severity: metric.Classify(metric.Temperature, v.Celsius, t.ForSensor(s.Kind, v.Max, v.Crit)),
			})
		}
	}

	if len(c.src.Sensors) > 0 && failed == len(c.src.Sensors) {
		return nil, errs
	}
	return b, nil
}

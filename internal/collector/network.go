package collector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"motd/internal/filter"
	"motd/internal/metric"
)

var (
	errInterfaceVanished = errors.New("interface vanished between samples")
	errCounterReset      = errors.New("counter went backwards")
)

// collectNetwork дважды снимает счетчики интерфейсов с интервалом NetInterval
// и возвращает пропускную способность в битах в секунду.
func (c *Collector) collectNetwork(ctx context.Context, _ metric.Thresholds) (*batch, error) {
	if c.src.Net == nil {
		return nil, fmt.Errorf("network: %w", errNoSource)
	}

	first, err := c.src.Net.Counters(ctx)
	if err != nil {
		return nil, err
	}
	start := time.Now()

	timer := time.NewTimer(c.opts.NetInterval)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	second, err := c.src.Net.Counters(ctx)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start).Seconds()

	now := make(map[string]NetCounters, len(second))
	for _, s := range second {
		now[s.Name] = s
	}

	b := newBatch(metric.NetworkInterface)
	for _, prev := range first {
		if c.opts.Rules.Excludes(filter.Interface, prev.Name) {
			continue
		}
		cur, ok := now[prev.Name]
		if !ok {
			b.drop(prev.Name, errInterfaceVanished)
			continue
		}
		if cur.RxBytes < prev.RxBytes || cur.TxBytes < prev.TxBytes {
			b.drop(prev.Name, errCounterReset)
			continue
		}

		rx := float64(cur.RxBytes-prev.RxBytes) * 8 / elapsed
		tx := float64(cur.TxBytes-prev.TxBytes) * 8 / elapsed
		b.add(metric.Reading{
			Label:    prev.Name,
			Value:    rx + tx,
			Severity: metric.Classify(metric.NetworkInterface, rx+tx, metric.Thresholds{}),
			RxBps:    rx,
			TxBps:    tx,
		})
	}

	sort.SliceStable(b.readings, func(i, j int) bool {
		return b.readings[i].Label < b.readings[j].Label
	})
	return b, nil
}

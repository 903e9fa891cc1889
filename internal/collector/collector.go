package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"motd/internal/filter"
	"motd/internal/metric"
)

const (
	DefaultBudget      = 3 * time.Second
	DefaultNetInterval = time.Second
)

// Options содержит общие для всех сборщиков входные данные, только для чтения.
type Options struct {
	Rules       filter.Rules
	Thresholds  metric.Thresholds
	NetInterval time.Duration
	Metrics     *Metrics
}

// Collector отвечает за сбор метрик всех семейств через слой запросов к ОС
type Collector struct {
	src    Sources
	opts   Options
	logger *zap.Logger
}

// New создает новый экземпляр сборщика метрик
func New(src Sources, opts Options, logger *zap.Logger) *Collector {
	if opts.NetInterval <= 0 {
		opts.NetInterval = DefaultNetInterval
	}
	return &Collector{
		src:    src,
		opts:   opts,
		logger: logger,
	}
}

// Collect параллельно запускает сборщики запрошенных семейств и ждет их
// не дольше budget. Сборщик, не успевший к дедлайну, бросается и
// записывается как таймаут. Семейства в снимке идут в порядке объявления
// независимо от порядка завершения. Пустой (nil) families означает
// все семейства.
func (c *Collector) Collect(ctx context.Context, families []metric.Family, budget time.Duration) *Snapshot {
	if budget <= 0 {
		budget = DefaultBudget
	}
	families = normalize(families)
	start := time.Now()

	c.logger.Debug("Starting metrics collection",
		zap.Int("families", len(families)),
		zap.Duration("budget", budget))

	workCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	t := c.opts.Thresholds
	if t.CPUCount <= 0 {
		t.CPUCount = metric.DefaultCPUCount
	}

	// Буферизованный, чтобы брошенные воркеры не блокировались на отправке
	results := make(chan Result, len(families))
	for _, family := range families {
		go c.run(workCtx, family, t, results)
	}

	got := make(map[metric.Family]Result, len(families))
wait:
	for len(got) < len(families) {
		select {
		case res := <-results:
			got[res.Family] = c.settle(ctx, res, budget)
		case <-workCtx.Done():
			break wait
		}
	}
	// Результаты, пришедшие одновременно с дедлайном, тоже учитываем
drain:
	for len(got) < len(families) {
		select {
		case res := <-results:
			got[res.Family] = c.settle(ctx, res, budget)
		default:
			break drain
		}
	}

	snapshot := &Snapshot{Taken: start}
	for _, family := range families {
		res, ok := got[family]
		if !ok {
			res = Result{
				Family:   family,
				Err:      abandonError(ctx, budget),
				Duration: time.Since(start),
			}
			c.logger.Warn("Collector abandoned",
				zap.Stringer("family", family),
				zap.Duration("budget", budget),
				zap.Error(res.Err))
		}
		c.opts.Metrics.Observe(res)
		snapshot.Results = append(snapshot.Results, res)
	}
	snapshot.Elapsed = time.Since(start)

	c.logger.Debug("Metrics collection completed",
		zap.Int("families", len(snapshot.Results)),
		zap.Duration("elapsed", snapshot.Elapsed))

	return snapshot
}

// run это один воркер. Он владеет своим батчем и общается с оркестратором
// только через results.
func (c *Collector) run(ctx context.Context, family metric.Family, t metric.Thresholds, results chan<- Result) {
	start := time.Now()
	res := Result{Family: family}

	defer func() {
		if r := recover(); r != nil {
			res = Result{Family: family, Err: fmt.Errorf("collector panicked: %v", r)}
		}
		res.Duration = time.Since(start)
		results <- res
	}()

	b, err := c.collectFamily(ctx, family, t)
	if err != nil {
		res.Err = err
		return
	}
	res.Readings = b.readings
	res.Dropped = b.dropped
	res.Tasks = b.tasks
}

func (c *Collector) collectFamily(ctx context.Context, family metric.Family, t metric.Thresholds) (*batch, error) {
	switch family {
	case metric.Load:
		return c.collectLoad(ctx, t)
	case metric.Memory:
		return c.collectMemory(ctx, t)
	case metric.Swap:
		return c.collectSwap(ctx, t)
	case metric.Filesystem:
		return c.collectFilesystems(ctx, t)
	case metric.Temperature:
		return c.collectTemperatures(ctx, t)
	case metric.NetworkInterface:
		return c.collectNetwork(ctx, t)
	case metric.FailedUnit:
		return c.collectUnits(ctx, t)
	default:
		return nil, fmt.Errorf("unknown metric family %d", family)
	}
}

// settle нормализует полученный результат и логирует ошибки.
func (c *Collector) settle(ctx context.Context, res Result, budget time.Duration) Result {
	if res.Err != nil {
		if errors.Is(res.Err, context.DeadlineExceeded) || errors.Is(res.Err, context.Canceled) {
			res.Err = abandonError(ctx, budget)
		}
		res.Readings, res.Dropped = nil, nil
		c.logger.Warn("Failed to collect metrics",
			zap.Stringer("family", res.Family),
			zap.Error(res.Err))
		return res
	}

	for _, d := range res.Dropped {
		c.logger.Debug("Dropped item",
			zap.Stringer("family", res.Family),
			zap.String("item", d.Label),
			zap.Error(d.Err))
	}
	return res
}

func timeoutError(budget time.Duration) error {
	return fmt.Errorf("%w after %s", ErrTimeout, budget)
}

// abandonError отличает отмененный запуск от истекшего бюджета.
func abandonError(parent context.Context, budget time.Duration) error {
	if errors.Is(parent.Err(), context.Canceled) {
		return fmt.Errorf("%w: %w", ErrInterrupted, parent.Err())
	}
	return timeoutError(budget)
}

// normalize убирает дубли и упорядочивает семейства по объявлению.
func normalize(families []metric.Family) []metric.Family {
	if families == nil {
		return append([]metric.Family(nil), metric.Families...)
	}
	out := make([]metric.Family, 0, len(families))
	for _, f := range metric.Families {
		if contains(families, f) {
			out = append(out, f)
		}
	}
	return out
}

func contains(families []metric.Family, f metric.Family) bool {
	for _, x := range families {
		if x == f {
			return true
		}
	}
	return false
}

var errNoSource = errors.New("no source configured")

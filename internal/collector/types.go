package collector

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"motd/internal/metric"
)

// ErrTimeout означает, что сборщик семейства не уложился в бюджет.
var ErrTimeout = errors.New("collection timed out")

// ErrInterrupted означает, что семейство брошено из-за отмены самого
// запуска, обычно сигналом.
var ErrInterrupted = errors.New("collection interrupted")

// ItemError описывает элемент, отброшенный из успешно собранного семейства.
type ItemError struct {
	Label string
	Err   error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Label, e.Err)
}

func (e ItemError) Unwrap() error {
	return e.Err
}

// Result это итог одного семейства. Либо задан Err и показаний нет,
// либо Err равен nil и Readings содержит все собранное, возможно
// ничего.
type Result struct {
	Family   metric.Family
	Readings []metric.Reading
	Dropped  []ItemError
	Err      error
	Duration time.Duration

	// Tasks это число задач планировщика, заполняется семейством нагрузки.
	Tasks int
}

// OK сообщает, удалось ли собрать семейство.
func (r Result) OK() bool {
	return r.Err == nil
}

// Snapshot это итог одного запуска, по одному Result на запрошенное
// семейство в порядке объявления.
type Snapshot struct {
	Taken   time.Time
	Elapsed time.Duration
	Results []Result
}

// Result возвращает результат семейства f.
func (s *Snapshot) Result(f metric.Family) (Result, bool) {
	for _, r := range s.Results {
		if r.Family == f {
			return r, true
		}
	}
	return Result{}, false
}

// Err возвращает объединенные ошибки, если упали все семейства, иначе nil.
// Запуск, где все семейства ушли в таймаут, все равно выводит ошибки;
// это отражается только в коде выхода.
func (s *Snapshot) Err() error {
	if len(s.Results) == 0 {
		return nil
	}

	var errs error
	for _, r := range s.Results {
		if r.OK() {
			return nil
		}
		errs = multierr.Append(errs, fmt.Errorf("%s: %w", r.Family, r.Err))
	}
	return errs
}

// batch накапливает показания одного семейства и отброшенные элементы.
type batch struct {
	family   metric.Family
	readings []metric.Reading
	dropped  []ItemError
	tasks    int
}

func newBatch(family metric.Family) *batch {
	return &batch{family: family}
}

func (b *batch) add(r metric.Reading) {
	r.Family = b.family
	b.readings = append(b.readings, r)
}

func (b *batch) drop(label string, err error) {
	b.dropped = append(b.dropped, ItemError{Label: label, Err: err})
}

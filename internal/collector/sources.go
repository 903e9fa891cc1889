package collector

import (
	"context"

	"motd/internal/sensors"
)

// LoadAverages это содержимое /proc/loadavg.
type LoadAverages struct {
	Load1  float64
	Load5  float64
	Load15 float64
	Tasks  int
}

// Usage это пара занято/всего в байтах.
type Usage struct {
	Used  uint64
	Total uint64
}

// Mount это одна запись таблицы монтирования.
type Mount struct {
	Device string
	Path   string
	Type   string
}

// NetCounters это накопительные счетчики байт одного интерфейса.
type NetCounters struct {
	Name    string
	RxBytes uint64
	TxBytes uint64
}

// LoadSource читает среднюю нагрузку и число процессоров.
type LoadSource interface {
	Averages(ctx context.Context) (LoadAverages, error)
	CPUCount(ctx context.Context) (int, error)
}

// MemorySource читает использование памяти и подкачки.
type MemorySource interface {
	Memory(ctx context.Context) (Usage, error)
	Swap(ctx context.Context) (Usage, error)
}

// MountSource перечисляет смонтированные ФС и измеряет их по одной.
type MountSource interface {
	Mounts(ctx context.Context) ([]Mount, error)
	Usage(ctx context.Context, path string) (Usage, error)
}

// SensorSource это одно дерево аппаратного мониторинга.
type SensorSource interface {
	Name() string
	Sensors(ctx context.Context) ([]sensors.Sensor, error)
	Read(ctx context.Context, s sensors.Sensor) (sensors.Value, error)
}

// NetSource снимает счетчики по интерфейсам.
type NetSource interface {
	Counters(ctx context.Context) ([]NetCounters, error)
}

// UnitSource возвращает упавшие юниты.
type UnitSource interface {
	FailedUnits(ctx context.Context) ([]string, error)
}

// Sources объединяет слой запросов к ОС. Nil источник роняет свое семейство.
type Sources struct {
	Load    LoadSource
	Memory  MemorySource
	Mounts  MountSource
	Sensors []SensorSource
	Net     NetSource
	Units   UnitSource
}

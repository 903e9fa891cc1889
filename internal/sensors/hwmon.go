// Package sensors читает датчики температуры из дерева hwmon ядра.
package sensors

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"motd/internal/metric"
)

// DefaultHwmonRoot это каталог, где ядро публикует аппаратные мониторы.
const DefaultHwmonRoot = "/sys/class/hwmon"

// ErrInvalidReading возвращается для датчиков со значением, которое не может
// быть реальной температурой (не разбирается, ноль или отрицательное).
var ErrInvalidReading = errors.New("invalid sensor reading")

// Sensor это перечисленный, но еще не измеренный датчик температуры.
type Sensor struct {
	Label  string
	Kind   metric.SensorKind
	Source string
	// Ref указывает датчик внутри источника: префикс пути sysfs для hwmon,
	// сырое поле температуры для hddtemp
	Ref string
}

// Value это измеренная температура с пределами устройства.
// Max и Crit равны нулю, если устройство их не сообщает.
type Value struct {
	Celsius float64
	Max     float64
	Crit    float64
}

// Hwmon перечисляет датчики temp*_input в каталоге класса hwmon.
type Hwmon struct {
	root string
}

// NewHwmon создает читатель дерева hwmon в root.
func NewHwmon(root string) *Hwmon {
	if root == "" {
		root = DefaultHwmonRoot
	}
	return &Hwmon{root: root}
}

// Name идентифицирует источник в логах.
func (h *Hwmon) Name() string { return "hwmon" }

// Sensors возвращает все датчики температуры с метками. Здесь только
// дешевые чтения (списки каталогов и файлы меток).
func (h *Hwmon) Sensors(ctx context.Context) ([]Sensor, error) {
	entries, err := os.ReadDir(h.root)
	if err != nil {
		return nil, fmt.Errorf("failed to list hwmon devices: %w", err)
	}

	var sensors []Sensor
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !strings.HasPrefix(entry.Name(), "hwmon") {
			continue
		}
		dir := filepath.Join(h.root, entry.Name())
		chip := readTrimmed(filepath.Join(dir, "name"))
		if chip == "" {
			chip = entry.Name()
		}

		inputs, err := filepath.Glob(filepath.Join(dir, "temp*_input"))
		if err != nil {
			continue
		}
		sort.Slice(inputs, func(i, j int) bool {
			return probeIndex(inputs[i]) < probeIndex(inputs[j])
		})

		for _, input := range inputs {
			prefix := strings.TrimSuffix(input, "_input")
			label := readTrimmed(prefix + "_label")
			if label == "" {
				label = chip + " " + filepath.Base(prefix)
			}
			sensors = append(sensors, Sensor{
				Label:  label,
				Kind:   KindFromLabel(label),
				Source: h.Name(),
				Ref:    prefix,
			})
		}
	}

	return sensors, nil
}

// Read измеряет один датчик. Текущее значение обязательно, пределы нет.
func (h *Hwmon) Read(_ context.Context, s Sensor) (Value, error) {
	celsius, err := readMillidegrees(s.Ref + "_input")
	if err != nil {
		return Value{}, err
	}
	if celsius <= 0 {
		return Value{}, fmt.Errorf("%s: %w: %v", s.Label, ErrInvalidReading, celsius)
	}

	v := Value{Celsius: celsius}
	if limit, err := readMillidegrees(s.Ref + "_max"); err == nil && limit > 0 {
		v.Max = limit
	}
	if crit, err := readMillidegrees(s.Ref + "_crit"); err == nil && crit > 0 {
		v.Crit = crit
	}
	return v, nil
}

// KindFromLabel определяет тип датчика по метке.
func KindFromLabel(label string) metric.SensorKind {
	for _, prefix := range []string{"CPU ", "Core ", "Package id", "Tctl", "Tdie"} {
		if strings.HasPrefix(label, prefix) {
			return metric.SensorCPU
		}
	}
	return metric.SensorOther
}

func readMillidegrees(path string) (float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	milli, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, ErrInvalidReading)
	}
	return float64(milli) / 1000, nil
}

func readTrimmed(path string) string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

// probeIndex извлекает N из ".../tempN_input".
func probeIndex(path string) int {
	base := strings.TrimPrefix(filepath.Base(path), "temp")
	base = strings.TrimSuffix(base, "_input")
	n, err := strconv.Atoi(base)
	if err != nil {
		return 0
	}
	return n
}

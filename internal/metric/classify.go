package metric

import "math"

const (
	// DefaultCPUCount используется, если число ядер определить не удалось
	DefaultCPUCount = 1

	DefaultLoadWarningFactor  = 1.0
	DefaultLoadCriticalFactor = 2.0

	DefaultUsageWarning  = 0.8
	DefaultUsageCritical = 0.95

	// Отступ между максимумом устройства и порогом предупреждения
	cpuSingleLimitMargin   = 10
	otherSingleLimitMargin = 5
	// Допустимый разрыв между max и crit для датчиков не CPU
	otherMaxLimitGap = 20
)

// TempBounds это пороги предупреждения и критической температуры датчика, в °C.
type TempBounds struct {
	Warning  float64
	Critical float64
}

// Valid сообщает, заданы ли пороги.
func (b TempBounds) Valid() bool {
	return b.Critical > 0
}

// Thresholds это контекст классификации. Строится один раз за запуск
// и передается по значению; ForSensor делает копии для отдельных датчиков.
type Thresholds struct {
	CPUCount int

	LoadWarningFactor  float64
	LoadCriticalFactor float64

	UsageWarning  float64
	UsageCritical float64

	CPUTemp   TempBounds
	OtherTemp TempBounds
	DriveTemp TempBounds

	// Kind и Sensor описывают классифицируемый датчик. Sensor заменяет
	// запасные пороги, если оборудование сообщило свои пределы
	Kind   SensorKind
	Sensor TempBounds
}

// DefaultThresholds возвращает встроенные пороги.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CPUCount:           DefaultCPUCount,
		LoadWarningFactor:  DefaultLoadWarningFactor,
		LoadCriticalFactor: DefaultLoadCriticalFactor,
		UsageWarning:       DefaultUsageWarning,
		UsageCritical:      DefaultUsageCritical,
		CPUTemp:            TempBounds{Warning: 60, Critical: 75},
		OtherTemp:          TempBounds{Warning: 50, Critical: 60},
		DriveTemp:          TempBounds{Warning: 45, Critical: 55},
	}
}

// ForSensor возвращает копию t с порогами одного датчика. hi и crit
// это пределы устройства, ноль, если устройство их не сообщает.
func (t Thresholds) ForSensor(kind SensorKind, hi, crit float64) Thresholds {
	t.Kind = kind
	t.Sensor, _ = SensorBounds(kind, hi, crit)
	return t
}

// SensorBounds выводит пороги из пределов устройства. Возвращает false,
// если устройство их не сообщило.
func SensorBounds(kind SensorKind, hi, crit float64) (TempBounds, bool) {
	hasMax, hasCrit := hi > 0, crit > 0

	switch {
	case hasMax && hasCrit:
		lo, top := math.Min(hi, crit), math.Max(hi, crit)
		gap := top - lo
		delta := float64(otherSingleLimitMargin)
		if kind == SensorCPU {
			delta = gap / 2
		} else if gap > otherMaxLimitGap {
			lo = top - otherMaxLimitGap
		}
		return TempBounds{Warning: lo - delta, Critical: lo}, true
	case hasMax || hasCrit:
		limit := math.Max(hi, crit)
		delta := float64(otherSingleLimitMargin)
		if kind == SensorCPU {
			delta = cpuSingleLimitMargin
		}
		return TempBounds{Warning: limit - delta, Critical: limit}, true
	default:
		return TempBounds{}, false
	}
}

// Classify определяет уровень значения данного семейства. Никогда не падает:
// при нехватке контекста используются значения по умолчанию.
func Classify(family Family, value float64, t Thresholds) Severity {
	switch family {
	case Load:
		return classifyLoad(value, t)
	case Memory, Swap, Filesystem:
		return classifyUsage(value, t)
	case Temperature:
		return classifyTemperature(value, t)
	case FailedUnit:
		return Critical
	default:
		return Normal
	}
}

func classifyLoad(value float64, t Thresholds) Severity {
	cpus := t.CPUCount
	if cpus <= 0 {
		cpus = DefaultCPUCount
	}
	warnFactor, critFactor := t.LoadWarningFactor, t.LoadCriticalFactor
	if warnFactor <= 0 {
		warnFactor = DefaultLoadWarningFactor
	}
	if critFactor <= 0 {
		critFactor = DefaultLoadCriticalFactor
	}

	switch {
	case value >= float64(cpus)*critFactor:
		return Critical
	case value >= float64(cpus)*warnFactor:
		return Warning
	default:
		return Normal
	}
}

func classifyUsage(fraction float64, t Thresholds) Severity {
	warn, crit := t.UsageWarning, t.UsageCritical
	if warn <= 0 {
		warn = DefaultUsageWarning
	}
	if crit <= 0 {
		crit = DefaultUsageCritical
	}

	switch {
	case fraction >= crit:
		return Critical
	case fraction >= warn:
		return Warning
	default:
		return Normal
	}
}

func classifyTemperature(celsius float64, t Thresholds) Severity {
	bounds := t.Sensor
	if !bounds.Valid() {
		bounds = t.fallbackTemp()
	}

	switch {
	case celsius >= bounds.Critical:
		return Critical
	case celsius >= bounds.Warning:
		return Warning
	default:
		return Normal
	}
}

func (t Thresholds) fallbackTemp() TempBounds {
	defaults := DefaultThresholds()
	pick := func(configured, builtin TempBounds) TempBounds {
		if configured.Valid() {
			return configured
		}
		return builtin
	}

	switch t.Kind {
	case SensorCPU:
		return pick(t.CPUTemp, defaults.CPUTemp)
	case SensorDrive:
		return pick(t.DriveTemp, defaults.DriveTemp)
	default:
		return pick(t.OtherTemp, defaults.OtherTemp)
	}
}

package metric

// Family определяет семейство метрик. Набор закрыт: каждый сборщик,
// раздел и switch рендерера перечисляют ровно эти значения.
type Family int

const (
	Load Family = iota
	Memory
	Swap
	Filesystem
	Temperature
	NetworkInterface
	FailedUnit
)

// Families перечисляет все семейства в порядке объявления.
var Families = []Family{Load, Memory, Swap, Filesystem, Temperature, NetworkInterface, FailedUnit}

var familyNames = map[Family]string{
	Load:             "load",
	Memory:           "memory",
	Swap:             "swap",
	Filesystem:       "filesystem",
	Temperature:      "temperature",
	NetworkInterface: "network",
	FailedUnit:       "failed_units",
}

func (f Family) String() string {
	if name, ok := familyNames[f]; ok {
		return name
	}
	return "unknown"
}

// Severity это уровень, в который попадает показание.
type Severity int

const (
	Normal Severity = iota
	Warning
	Critical
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Critical:
		return "critical"
	default:
		return "normal"
	}
}

// SensorKind выбирает запасные температурные пороги датчика.
type SensorKind int

const (
	SensorOther SensorKind = iota
	SensorCPU
	SensorDrive
)

// Reading это одно классифицированное измерение. Показания передаются
// по значению и не меняются после сборщика.
type Reading struct {
	Family   Family
	Label    string
	Value    float64
	Severity Severity

	// Used и Total заполняются для семейств использования (память, подкачка, ФС), в байтах
	Used  uint64
	Total uint64

	// RxBps и TxBps заполняются для сетевых интерфейсов, в битах в секунду
	RxBps float64
	TxBps float64
}

// Fraction возвращает Used/Total или 0, если объем неизвестен.
func (r Reading) Fraction() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Used) / float64(r.Total)
}

// Package filter решает, какие перечисленные элементы отбрасываются
// до измерения.
package filter

import (
	"fmt"
	"regexp"
)

// Field это атрибут кандидата, с которым сравнивается правило.
type Field int

const (
	MountPath Field = iota
	MountType
	SensorLabel
	Interface
	Unit
)

func (f Field) String() string {
	switch f {
	case MountPath:
		return "mount_path"
	case MountType:
		return "mount_type"
	case SensorLabel:
		return "sensor_label"
	case Interface:
		return "interface"
	case Unit:
		return "unit"
	default:
		return "unknown"
	}
}

// Rule это скомпилированный шаблон исключения для одного поля.
type Rule struct {
	Field   Field
	Pattern *regexp.Regexp
}

// Rules это набор правил исключения одного запуска. Nil Rules ничего не исключает.
type Rules []Rule

// Compile компилирует шаблоны в правила для field. Некорректные шаблоны
// отклоняются здесь, чтобы проверка никогда не падала.
func Compile(field Field, patterns []string) (Rules, error) {
	rules := make(Rules, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s pattern %q: %w", field, p, err)
		}
		rules = append(rules, Rule{Field: field, Pattern: re})
	}
	return rules, nil
}

// MustCompile как Compile, но паникует на некорректном шаблоне.
func MustCompile(field Field, patterns ...string) Rules {
	rules, err := Compile(field, patterns)
	if err != nil {
		panic(err)
	}
	return rules
}

// Merge объединяет наборы правил.
func Merge(sets ...Rules) Rules {
	var out Rules
	for _, s := range sets {
		out = append(out, s...)
	}
	return out
}

// IsExcluded сообщает, совпадает ли candidate с каким-либо правилом для field.
func IsExcluded(field Field, candidate string, rules Rules) bool {
	for _, r := range rules {
		if r.Field != field {
			continue
		}
		if r.Pattern.MatchString(candidate) {
			return true
		}
	}
	return false
}

// Excludes это метод-обертка над IsExcluded.
func (r Rules) Excludes(field Field, candidate string) bool {
	return IsExcluded(field, candidate, r)
}

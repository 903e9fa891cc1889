package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"motd/internal/collector"
	"motd/internal/filter"
	"motd/internal/hddtemp"
	"motd/internal/metric"
	"motd/internal/sensors"
	"motd/internal/systemd"
)

const envPrefix = "MOTD"

var valid = validator.New()

// DefaultMountTypeBlacklist пропускает псевдо и виртуальные ФС.
const DefaultMountTypeBlacklist = `^(autofs|binfmt_misc|bpf|cgroup2?|configfs|debugfs|devpts|devtmpfs|efivarfs|fusectl|fuse\.gvfsd-fuse|fuse\.portal|hugetlbfs|mqueue|nsfs|overlay|proc|pstore|ramfs|rpc_pipefs|securityfs|squashfs|sysfs|tmpfs|tracefs)$`

// DefaultMountPathBlacklist пропускает деревья ядра и runtime.
const DefaultMountPathBlacklist = `^/(dev|proc|sys|run)($|/)`

// Config содержит всю конфигурацию одного запуска
type Config struct {
	FS          FSConfig         `mapstructure:"fs"`
	Temp        TempConfig       `mapstructure:"temp"`
	Net         NetConfig        `mapstructure:"net"`
	Units       UnitsConfig      `mapstructure:"units"`
	Thresholds  ThresholdsConfig `mapstructure:"thresholds"`
	Collect     CollectConfig    `mapstructure:"collect"`
	Log         LogConfig        `mapstructure:"log"`
	Display     DisplayConfig    `mapstructure:"display"`
	MetricsFile string           `mapstructure:"metrics_file"`
	Profile     ProfileConfig    `mapstructure:"profile"`

	// Rules это шаблоны исключений всех семейств, компилируются в Load
	Rules filter.Rules `mapstructure:"-"`
}

// FSConfig настраивает раздел файловых систем.
type FSConfig struct {
	MountTypeBlacklist []string `mapstructure:"mount_type_blacklist"`
	MountPathBlacklist []string `mapstructure:"mount_path_blacklist"`
}

// TempConfig настраивает источники температур.
type TempConfig struct {
	HwmonLabelBlacklist []string      `mapstructure:"hwmon_label_blacklist"`
	HwmonRoot           string        `mapstructure:"hwmon_root" validate:"required"`
	HddtempAddr         string        `mapstructure:"hddtemp_addr" validate:"omitempty,hostname_port"`
	HddtempTimeout      time.Duration `mapstructure:"hddtemp_timeout" validate:"gt=0"`
}

// NetConfig настраивает раздел сетевых интерфейсов.
type NetConfig struct {
	InterfaceBlacklist []string      `mapstructure:"interface_blacklist"`
	SampleInterval     time.Duration `mapstructure:"sample_interval" validate:"gt=0"`
}

// UnitsConfig настраивает раздел упавших юнитов systemd.
type UnitsConfig struct {
	UnitBlacklist []string `mapstructure:"unit_blacklist"`
	User          bool     `mapstructure:"user"`
}

// ThresholdsConfig хранит пороги классификации. Температуры в °C
// применяются только к датчикам без собственных пределов.
type ThresholdsConfig struct {
	LoadWarningFactor  float64 `mapstructure:"load_warning_factor" validate:"gt=0"`
	LoadCriticalFactor float64 `mapstructure:"load_critical_factor" validate:"gtefield=LoadWarningFactor"`
	UsageWarning       float64 `mapstructure:"usage_warning" validate:"gt=0,lte=1"`
	UsageCritical      float64 `mapstructure:"usage_critical" validate:"gtefield=UsageWarning,lte=1"`
	CPUTempWarning     float64 `mapstructure:"cpu_temp_warning" validate:"gt=0"`
	CPUTempCritical    float64 `mapstructure:"cpu_temp_critical" validate:"gtefield=CPUTempWarning"`
	OtherTempWarning   float64 `mapstructure:"other_temp_warning" validate:"gt=0"`
	OtherTempCritical  float64 `mapstructure:"other_temp_critical" validate:"gtefield=OtherTempWarning"`
	DriveTempWarning   float64 `mapstructure:"drive_temp_warning" validate:"gt=0"`
	DriveTempCritical  float64 `mapstructure:"drive_temp_critical" validate:"gtefield=DriveTempWarning"`
}

// CollectConfig ограничивает время сбора.
type CollectConfig struct {
	Budget time.Duration `mapstructure:"budget" validate:"gt=0"`
}

// LogConfig настраивает логирование.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	File  string `mapstructure:"file"`
}

// DisplayConfig управляет выводом баннера.
type DisplayConfig struct {
	Sections []string `mapstructure:"sections" validate:"min=1,dive,oneof=l m s f t n u"`
	Columns  int      `mapstructure:"columns"`
	NoTitles bool     `mapstructure:"no_titles"`
	Color    string   `mapstructure:"color" validate:"oneof=auto always never"`
	Header   bool     `mapstructure:"header"`
}

// ProfileConfig задает файлы профилей CPU и памяти.
type ProfileConfig struct {
	CPU string `mapstructure:"cpu"`
	Mem string `mapstructure:"mem"`
}

// DefaultSections возвращает буквы всех разделов, упавшие юниты только
// на хостах с systemd.
func DefaultSections() []string {
	sections := []string{"l", "m", "s", "f", "t", "n"}
	if systemd.Available() {
		sections = append(sections, "u")
	}
	return sections
}

// defaults задает встроенные значения всех ключей.
func defaults() map[string]any {
	d := metric.DefaultThresholds()
	return map[string]any{
		"fs.mount_type_blacklist":         []string{DefaultMountTypeBlacklist},
		"fs.mount_path_blacklist":         []string{DefaultMountPathBlacklist},
		"temp.hwmon_label_blacklist":      []string{},
		"temp.hwmon_root":                 sensors.DefaultHwmonRoot,
		"temp.hddtemp_addr":               hddtemp.DefaultAddr,
		"temp.hddtemp_timeout":            hddtemp.DefaultTimeout,
		"net.interface_blacklist":         []string{`^lo$`},
		"net.sample_interval":             collector.DefaultNetInterval,
		"units.unit_blacklist":            []string{},
		"units.user":                      false,
		"thresholds.load_warning_factor":  d.LoadWarningFactor,
		"thresholds.load_critical_factor": d.LoadCriticalFactor,
		"thresholds.usage_warning":        d.UsageWarning,
		"thresholds.usage_critical":       d.UsageCritical,
		"thresholds.cpu_temp_warning":     d.CPUTemp.Warning,
		"thresholds.cpu_temp_critical":    d.CPUTemp.Critical,
		"thresholds.other_temp_warning":   d.OtherTemp.Warning,
		"thresholds.other_temp_critical":  d.OtherTemp.Critical,
		"thresholds.drive_temp_warning":   d.DriveTemp.Warning,
		"thresholds.drive_temp_critical":  d.DriveTemp.Critical,
		"collect.budget":                  collector.DefaultBudget,
		"log.level":                       "warn",
		"log.file":                        "",
		"display.sections":                DefaultSections(),
		"display.columns":                 -80,
		"display.no_titles":               false,
		"display.color":                   "auto",
		"display.header":                  false,
		"metrics_file":                    "",
		"profile.cpu":                     "",
		"profile.mem":                     "",
	}
}

// flagKeys сопоставляет флаги командной строки ключам конфигурации.
var flagKeys = map[string]string{
	"sections":     "display.sections",
	"no-titles":    "display.no_titles",
	"columns":      "display.columns",
	"color":        "display.color",
	"header":       "display.header",
	"budget":       "collect.budget",
	"net-interval": "net.sample_interval",
	"log-level":    "log.level",
	"log-file":     "log.file",
	"metrics-file": "metrics_file",
	"profile-cpu":  "profile.cpu",
	"profile-mem":  "profile.mem",
}

// NewConfig создает конфигурацию со значениями по умолчанию, без учета
// файла, окружения и флагов
func NewConfig() *Config {
	cfg, err := decode(newViper())
	if err != nil {
		panic(fmt.Sprintf("invalid built-in configuration: %v", err))
	}
	return cfg
}

// Load собирает конфигурацию (по возрастанию приоритета): значения по
// умолчанию, TOML файл, переменные окружения MOTD_* и флаги командной
// строки. Результат проверяется, правила компилируются.
func Load(cmd *cobra.Command) (*Config, error) {
	v := newViper()

	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
			}
		}
	}

	path, _ := cmd.Flags().GetString("config")
	if err := readConfigFile(v, path); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.compile(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}
	return v
}

// readConfigFile читает path или путь по умолчанию, если path пуст.
// Отсутствие файла по умолчанию не ошибка, явно указанного ошибка.
func readConfigFile(v *viper.Viper, path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
		if path == "" {
			return nil
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil
		}
	}

	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}

// DefaultPath возвращает $XDG_CONFIG_HOME/motd/config.toml, при отсутствии
// переменной ~/.config.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "motd", "config.toml")
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	if err := valid.Struct(c); err != nil {
		return err
	}
	if c.Net.SampleInterval >= c.Collect.Budget {
		return fmt.Errorf("network sample interval %s must be shorter than the collection budget %s",
			c.Net.SampleInterval, c.Collect.Budget)
	}
	if _, err := ParseSections(c.Display.Sections); err != nil {
		return err
	}
	return nil
}

func (c *Config) compile() error {
	sets := []struct {
		field    filter.Field
		patterns []string
	}{
		{filter.MountType, c.FS.MountTypeBlacklist},
		{filter.MountPath, c.FS.MountPathBlacklist},
		{filter.SensorLabel, c.Temp.HwmonLabelBlacklist},
		{filter.Interface, c.Net.InterfaceBlacklist},
		{filter.Unit, c.Units.UnitBlacklist},
	}

	var rules filter.Rules
	for _, s := range sets {
		compiled, err := filter.Compile(s.field, s.patterns)
		if err != nil {
			return err
		}
		rules = filter.Merge(rules, compiled)
	}
	c.Rules = rules
	return nil
}

// Families возвращает запрошенные семейства в порядке объявления.
func (c *Config) Families() []metric.Family {
	families, _ := ParseSections(c.Display.Sections)
	return families
}

// ClassifierThresholds переводит настроенные пороги для классификатора.
func (c *Config) ClassifierThresholds() metric.Thresholds {
	t := c.Thresholds
	return metric.Thresholds{
		CPUCount:           metric.DefaultCPUCount,
		LoadWarningFactor:  t.LoadWarningFactor,
		LoadCriticalFactor: t.LoadCriticalFactor,
		UsageWarning:       t.UsageWarning,
		UsageCritical:      t.UsageCritical,
		CPUTemp:            metric.TempBounds{Warning: t.CPUTempWarning, Critical: t.CPUTempCritical},
		OtherTemp:          metric.TempBounds{Warning: t.OtherTempWarning, Critical: t.OtherTempCritical},
		DriveTemp:          metric.TempBounds{Warning: t.DriveTempWarning, Critical: t.DriveTempCritical},
	}
}

var sectionLetters = map[string]metric.Family{
	"l": metric.Load,
	"m": metric.Memory,
	"s": metric.Swap,
	"f": metric.Filesystem,
	"t": metric.Temperature,
	"n": metric.NetworkInterface,
	"u": metric.FailedUnit,
}

// ParseSections переводит буквы разделов в семейства в порядке объявления.
func ParseSections(letters []string) ([]metric.Family, error) {
	requested := make(map[metric.Family]bool, len(letters))
	for _, l := range letters {
		f, ok := sectionLetters[strings.TrimSpace(l)]
		if !ok {
			return nil, fmt.Errorf("unknown section %q", l)
		}
		requested[f] = true
	}

	var families []metric.Family
	for _, f := range metric.Families {
		if requested[f] {
			families = append(families, f)
		}
	}
	return families, nil
}

// AddFlags добавляет флаги командной строки
func AddFlags(cmd *cobra.Command) {
	d := NewConfig()
	flags := cmd.Flags()

	flags.String("config", "", "Config file (default $XDG_CONFIG_HOME/motd/config.toml)")
	flags.StringSliceP("sections", "s", d.Display.Sections,
		"Sections to display. l: system load, m: memory, s: swap, f: filesystem usage, "+
			"t: hardware temperatures, n: network interfaces, u: systemd failed units")
	flags.BoolP("no-titles", "n", d.Display.NoTitles, "Do not display section titles")
	flags.IntP("columns", "c", d.Display.Columns,
		"Maximum terminal columns to use. 0 to autodetect, -X for the autodetected value or X, whichever is lower")
	flags.String("color", d.Display.Color, "Colorize output (auto, always, never)")
	flags.Bool("header", d.Display.Header, "Show the hostname header")
	flags.Duration("budget", d.Collect.Budget, "Maximum time spent collecting")
	flags.Duration("net-interval", d.Net.SampleInterval, "Interval between the two network samples")
	flags.String("log-level", d.Log.Level, "Log level (debug, info, warn, error)")
	flags.String("log-file", d.Log.File, "Also write logs to this file, rotated daily")
	flags.String("metrics-file", d.MetricsFile, "Write collection metrics to this Prometheus textfile")
	flags.String("profile-cpu", d.Profile.CPU, "CPU profile output file")
	flags.String("profile-mem", d.Profile.Mem, "Memory profile output file")
}

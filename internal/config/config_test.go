package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motd/internal/config"
	"motd/internal/filter"
	"motd/internal/metric"
)

// command возвращает корневую команду с флагами motd, разобранными из args.
// Путь конфига по умолчанию указывает в пустой каталог.
func command(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmd := &cobra.Command{Use: "motd"}
	config.AddFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(command(t))
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 3*time.Second, cfg.Collect.Budget)
	assert.Equal(t, time.Second, cfg.Net.SampleInterval)
	assert.Equal(t, -80, cfg.Display.Columns)
	assert.Equal(t, "auto", cfg.Display.Color)
	assert.Equal(t, "127.0.0.1:7634", cfg.Temp.HddtempAddr)
	assert.Equal(t, config.DefaultSections(), cfg.Display.Sections)

	assert.True(t, cfg.Rules.Excludes(filter.MountPath, "/dev/shm"))
	assert.True(t, cfg.Rules.Excludes(filter.MountPath, "/run/user/1000"))
	assert.False(t, cfg.Rules.Excludes(filter.MountPath, "/home"))
	assert.True(t, cfg.Rules.Excludes(filter.MountType, "tmpfs"))
	assert.True(t, cfg.Rules.Excludes(filter.MountType, "cgroup2"))
	assert.False(t, cfg.Rules.Excludes(filter.MountType, "ext4"))
	assert.True(t, cfg.Rules.Excludes(filter.Interface, "lo"))
	assert.False(t, cfg.Rules.Excludes(filter.Interface, "lo0"))

	assert.Equal(t, metric.DefaultThresholds(), cfg.ClassifierThresholds())
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
metrics_file = "/var/lib/node_exporter/motd.prom"

[fs]
mount_path_blacklist = ["^/boot"]

[temp]
hwmon_label_blacklist = ["^SYSTIN$", "^CPUTIN$"]
hddtemp_addr = ""

[thresholds]
usage_warning = 0.7
drive_temp_critical = 50

[collect]
budget = "5s"

[display]
sections = "l,t"
`)

	cfg, err := config.Load(command(t, "--config", path))
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Collect.Budget)
	assert.Empty(t, cfg.Temp.HddtempAddr)
	assert.Equal(t, "/var/lib/node_exporter/motd.prom", cfg.MetricsFile)
	assert.Equal(t, []metric.Family{metric.Load, metric.Temperature}, cfg.Families())

	assert.True(t, cfg.Rules.Excludes(filter.MountPath, "/boot/efi"))
	assert.False(t, cfg.Rules.Excludes(filter.MountPath, "/dev"))
	assert.True(t, cfg.Rules.Excludes(filter.SensorLabel, "CPUTIN"))

	th := cfg.ClassifierThresholds()
	assert.Equal(t, 0.7, th.UsageWarning)
	assert.Equal(t, metric.TempBounds{Warning: 45, Critical: 50}, th.DriveTemp)
}

func TestLoadDefaultLocation(t *testing.T) {
	xdg := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(xdg, "motd"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(xdg, "motd", "config.toml"),
		[]byte("[units]\nuser = true\n"), 0o600))

	cmd := &cobra.Command{Use: "motd"}
	config.AddFlags(cmd)
	t.Setenv("XDG_CONFIG_HOME", xdg)

	cfg, err := config.Load(cmd)
	require.NoError(t, err)
	assert.True(t, cfg.Units.User)
}

func TestEnvironmentAndFlagPrecedence(t *testing.T) {
	cmd := command(t, "--log-level", "error")
	t.Setenv("MOTD_LOG_LEVEL", "debug")
	t.Setenv("MOTD_DISPLAY_NO_TITLES", "true")

	cfg, err := config.Load(cmd)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.True(t, cfg.Display.NoTitles)
}

func TestFlags(t *testing.T) {
	cfg, err := config.Load(command(t, "-s", "u,l", "-n", "-c", "0", "--budget", "2s", "--net-interval", "500ms"))
	require.NoError(t, err)

	assert.Equal(t, []metric.Family{metric.Load, metric.FailedUnit}, cfg.Families())
	assert.True(t, cfg.Display.NoTitles)
	assert.Equal(t, 0, cfg.Display.Columns)
	assert.Equal(t, 2*time.Second, cfg.Collect.Budget)
	assert.Equal(t, 500*time.Millisecond, cfg.Net.SampleInterval)
}

func TestMalformedPatternRejected(t *testing.T) {
	path := writeConfig(t, "[fs]\nmount_type_blacklist = [\"([\"]\n")

	_, err := config.Load(command(t, "--config", path))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mount_type")
}

func TestMissingExplicitFile(t *testing.T) {
	_, err := config.Load(command(t, "--config", filepath.Join(t.TempDir(), "absent.toml")))
	assert.Error(t, err)
}

func TestInvalidValues(t *testing.T) {
	cases := map[string]string{
		"usage critical below warning": "[thresholds]\nusage_warning = 0.9\nusage_critical = 0.8\n",
		"usage above one":              "[thresholds]\nusage_critical = 1.5\n",
		"unknown log level":            "[log]\nlevel = \"verbose\"\n",
		"unknown color mode":           "[display]\ncolor = \"sometimes\"\n",
		"unknown section":              "[display]\nsections = [\"l\", \"x\"]\n",
		"sample longer than budget":    "[collect]\nbudget = \"1s\"\n[net]\nsample_interval = \"2s\"\n",
		"bad hddtemp address":          "[temp]\nhddtemp_addr = \"localhost\"\n",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(command(t, "--config", writeConfig(t, content)))
			assert.Error(t, err)
		})
	}
}

func TestParseSections(t *testing.T) {
	families, err := config.ParseSections([]string{"u", "l", "t", "l"})
	require.NoError(t, err)
	assert.Equal(t, []metric.Family{metric.Load, metric.Temperature, metric.FailedUnit}, families)

	_, err = config.ParseSections([]string{"q"})
	assert.Error(t, err)
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"motd/internal/collector"
	"motd/internal/config"
	"motd/internal/hddtemp"
	"motd/internal/logger"
	"motd/internal/render"
	"motd/internal/sensors"
	"motd/internal/systemd"
	"motd/pkg/profiler"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "motd",
		Short:        "Show dynamic summary of system information",
		Version:      version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         run,
	}
	config.AddFlags(cmd)
	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	return execute(cmd, sources)
}

// execute выполняет один запуск баннера. wire собирает слой запросов к ОС.
func execute(cmd *cobra.Command, wire func(*config.Config, *zap.Logger) collector.Sources) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}

	if err := logger.Initialize(cfg.Log.Level, cfg.Log.File); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Cleanup()
	log := logger.Logger

	prof := profiler.New(profiler.Config{
		CPUProfile: cfg.Profile.CPU,
		MemProfile: cfg.Profile.Mem,
	}, log)
	if err := prof.Start(); err != nil {
		return err
	}
	defer func() {
		if err := prof.Stop(); err != nil {
			log.Warn("Failed to stop profiler", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := render.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), render.Options{
		Columns: render.ResolveColumns(cfg.Display.Columns, func() (int, error) {
			return render.TerminalWidth(os.Stdout)
		}),
		NoTitles: cfg.Display.NoTitles,
		Color:    useColor(cfg.Display.Color),
	})

	if cfg.Display.Header {
		info, err := collector.System{}.Host(ctx)
		if err != nil {
			log.Warn("Failed to get host information", zap.Error(err))
		} else if err := r.Header(info); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	var registry *prometheus.Registry
	var metrics *collector.Metrics
	if cfg.MetricsFile != "" {
		registry = prometheus.NewRegistry()
		metrics = collector.NewMetrics(registry)
	}

	c := collector.New(wire(cfg, log), collector.Options{
		Rules:       cfg.Rules,
		Thresholds:  cfg.ClassifierThresholds(),
		NetInterval: cfg.Net.SampleInterval,
		Metrics:     metrics,
	}, log)

	done := render.Loading(os.Stderr, render.IsTerminal(os.Stderr))
	snapshot := c.Collect(ctx, cfg.Families(), cfg.Collect.Budget)
	done()

	if err := r.Render(snapshot); err != nil {
		return fmt.Errorf("failed to write banner: %w", err)
	}

	if registry != nil {
		if err := render.WriteTextfile(cfg.MetricsFile, registry); err != nil {
			log.Warn("Failed to export metrics", zap.String("file", cfg.MetricsFile), zap.Error(err))
		}
	}

	// Частичные сбои уже выведены выше, код выхода остается 0
	if err := snapshot.Err(); err != nil {
		return fmt.Errorf("no section could be collected: %w", err)
	}
	return nil
}

// sources собирает слой запросов к ОС.
func sources(cfg *config.Config, log *zap.Logger) collector.Sources {
	sys := collector.System{}
	src := collector.Sources{
		Load:    sys,
		Memory:  sys,
		Mounts:  sys,
		Net:     sys,
		Units:   systemd.NewClient(nil, cfg.Units.User, log),
		Sensors: []collector.SensorSource{sensors.NewHwmon(cfg.Temp.HwmonRoot)},
	}
	if cfg.Temp.HddtempAddr != "" {
		src.Sensors = append(src.Sensors, hddtemp.NewClient(cfg.Temp.HddtempAddr, cfg.Temp.HddtempTimeout, log))
	}
	return src
}

func useColor(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return os.Getenv("NO_COLOR") == "" && render.IsTerminal(os.Stdout)
	}
}

package profiler

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Config задает снимаемые профили. Пустой путь отключает профиль.
type Config struct {
	CPUProfile string
	MemProfile string
}

// Enabled сообщает, запрошен ли хоть один профиль.
func (c Config) Enabled() bool {
	return c.CPUProfile != "" || c.MemProfile != ""
}

// Profiler снимает профиль CPU на весь запуск и профиль кучи в конце.
type Profiler struct {
	config  Config
	logger  *zap.Logger
	cpuFile *os.File
}

// New создает новый профайлер
func New(config Config, logger *zap.Logger) *Profiler {
	return &Profiler{
		config: config,
		logger: logger,
	}
}

// Start запускает профилирование CPU, если оно запрошено.
func (p *Profiler) Start() error {
	if p.config.CPUProfile == "" {
		return nil
	}

	file, err := os.Create(p.config.CPUProfile)
	if err != nil {
		return fmt.Errorf("failed to create CPU profile file: %w", err)
	}
	if err := pprof.StartCPUProfile(file); err != nil {
		file.Close()
		return fmt.Errorf("failed to start CPU profiling: %w", err)
	}
	p.cpuFile = file

	p.logger.Debug("Started CPU profiling", zap.String("file", p.config.CPUProfile))
	return nil
}

// Stop завершает профилирование CPU и пишет профиль кучи.
func (p *Profiler) Stop() error {
	var errs error

	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		if err := p.cpuFile.Close(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("failed to close CPU profile file: %w", err))
		}
		p.cpuFile = nil
	}

	if p.config.MemProfile != "" {
		if err := p.writeMemProfile(); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	return errs
}

func (p *Profiler) writeMemProfile() error {
	file, err := os.Create(p.config.MemProfile)
	if err != nil {
		return fmt.Errorf("failed to create memory profile file: %w", err)
	}
	defer file.Close()

	// Актуальная статистика
	runtime.GC()

	if err := pprof.WriteHeapProfile(file); err != nil {
		return fmt.Errorf("failed to write memory profile: %w", err)
	}

	p.logger.Debug("Written memory profile", zap.String("file", p.config.MemProfile))
	return nil
}

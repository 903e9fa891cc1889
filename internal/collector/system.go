package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
)

// System реализует источники нагрузки, памяти, точек монтирования и сети
// поверх gopsutil.
type System struct{}

// Averages возвращает среднюю нагрузку за 1, 5 и 15 минут и число задач.
func (System) Averages(ctx context.Context) (LoadAverages, error) {
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return LoadAverages{}, fmt.Errorf("failed to get load average: %w", err)
	}

	out := LoadAverages{
		Load1:  avg.Load1,
		Load5:  avg.Load5,
		Load15: avg.Load15,
	}

	// Число задач не критично, продолжаем без него
	if misc, err := load.MiscWithContext(ctx); err == nil {
		out.Tasks = misc.ProcsTotal
	}
	return out, nil
}

// CPUCount возвращает число логических процессоров.
func (System) CPUCount(ctx context.Context) (int, error) {
	n, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return 0, fmt.Errorf("failed to count CPUs: %w", err)
	}
	return n, nil
}

// Memory возвращает использование памяти. Буферы и кэш страниц считаются свободными.
func (System) Memory(ctx context.Context) (Usage, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Usage{}, fmt.Errorf("failed to get memory statistics: %w", err)
	}

	reclaimable := vm.Free + vm.Buffers + vm.Cached
	var used uint64
	if vm.Total > reclaimable {
		used = vm.Total - reclaimable
	}
	return Usage{Used: used, Total: vm.Total}, nil
}

// Swap возвращает использование подкачки.
func (System) Swap(ctx context.Context) (Usage, error) {
	sw, err := mem.SwapMemoryWithContext(ctx)
	if err != nil {
		return Usage{}, fmt.Errorf("failed to get swap statistics: %w", err)
	}
	return Usage{Used: sw.Used, Total: sw.Total}, nil
}

// Mounts возвращает все точки монтирования, включая псевдо ФС.
func (System) Mounts(ctx context.Context) ([]Mount, error) {
	parts, err := disk.PartitionsWithContext(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to read mount table: %w", err)
	}

	mounts := make([]Mount, 0, len(parts))
	for _, p := range parts {
		mounts = append(mounts, Mount{
			Device: p.Device,
			Path:   p.Mountpoint,
			Type:   p.Fstype,
		})
	}
	return mounts, nil
}

// Usage измеряет одну смонтированную ФС.
func (System) Usage(ctx context.Context, path string) (Usage, error) {
	st, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return Usage{}, fmt.Errorf("failed to get disk statistics: %w", err)
	}
	return Usage{Used: st.Used, Total: st.Total}, nil
}

// Counters возвращает счетчики байт по каждому интерфейсу.
func (System) Counters(ctx context.Context) ([]NetCounters, error) {
	stats, err := net.IOCountersWithContext(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get network statistics: %w", err)
	}

	out := make([]NetCounters, 0, len(stats))
	for _, s := range stats {
		out = append(out, NetCounters{
			Name:    s.Name,
			RxBytes: s.BytesRecv,
			TxBytes: s.BytesSent,
		})
	}
	return out, nil
}

// HostInfo описывает машину в заголовке баннера.
type HostInfo struct {
	Hostname        string
	Platform        string
	PlatformVersion string
	Kernel          string
	Uptime          time.Duration
}

// Host возвращает сводку по хосту.
func (System) Host(ctx context.Context) (HostInfo, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return HostInfo{}, fmt.Errorf("failed to get host information: %w", err)
	}
	return HostInfo{
		Hostname:        info.Hostname,
		Platform:        info.Platform,
		PlatformVersion: info.PlatformVersion,
		Kernel:          info.KernelVersion,
		Uptime:          time.Duration(info.Uptime) * time.Second,
	}, nil
}

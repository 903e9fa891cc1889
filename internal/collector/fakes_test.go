package collector_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"motd/internal/collector"
	"motd/internal/sensors"
)

var errUnreachable = errors.New("interface unreachable")

// gate задерживает фейк, пока не пройдет delay или не закроется release.
type gate struct {
	delay   time.Duration
	release chan struct{}
}

func (g gate) wait() {
	if g.release != nil {
		<-g.release
		return
	}
	if g.delay > 0 {
		time.Sleep(g.delay)
	}
}

type fakeLoad struct {
	gate
	avg     collector.LoadAverages
	cpus    int
	err     error
	cpuErr  error
	cpuGate gate
}

func (f *fakeLoad) Averages(context.Context) (collector.LoadAverages, error) {
	f.wait()
	return f.avg, f.err
}

func (f *fakeLoad) CPUCount(context.Context) (int, error) {
	f.cpuGate.wait()
	return f.cpus, f.cpuErr
}

type fakeMemory struct {
	gate
	mem, swap collector.Usage
	err       error
}

func (f *fakeMemory) Memory(context.Context) (collector.Usage, error) {
	f.wait()
	return f.mem, f.err
}

func (f *fakeMemory) Swap(context.Context) (collector.Usage, error) {
	f.wait()
	return f.swap, f.err
}

type fakeMounts struct {
	gate
	mounts []collector.Mount
	usage  map[string]collector.Usage
	err    error

	mu       sync.Mutex
	measured []string
}

func (f *fakeMounts) Mounts(context.Context) ([]collector.Mount, error) {
	f.wait()
	return f.mounts, f.err
}

func (f *fakeMounts) Usage(_ context.Context, path string) (collector.Usage, error) {
	f.mu.Lock()
	f.measured = append(f.measured, path)
	f.mu.Unlock()

	u, ok := f.usage[path]
	if !ok {
		return collector.Usage{}, errors.New("statfs failed")
	}
	return u, nil
}

type fakeSensors struct {
	gate
	name   string
	list   []sensors.Sensor
	values map[string]sensors.Value
	err    error
}

func (f *fakeSensors) Name() string { return f.name }

func (f *fakeSensors) Sensors(context.Context) ([]sensors.Sensor, error) {
	f.wait()
	return f.list, f.err
}

func (f *fakeSensors) Read(_ context.Context, s sensors.Sensor) (sensors.Value, error) {
	v, ok := f.values[s.Label]
	if !ok {
		return sensors.Value{}, sensors.ErrInvalidReading
	}
	return v, nil
}

// fakeNet отдает сэмплы по очереди, повторяя последний.
type fakeNet struct {
	gate
	samples [][]collector.NetCounters
	err     error

	mu    sync.Mutex
	calls int
}

func (f *fakeNet) Counters(context.Context) ([]collector.NetCounters, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil || len(f.samples) == 0 {
		return nil, f.err
	}
	i := f.calls
	if i >= len(f.samples) {
		i = len(f.samples) - 1
	}
	f.calls++
	return f.samples[i], nil
}

type fakeUnits struct {
	gate
	units []string
	err   error
}

func (f *fakeUnits) FailedUnits(context.Context) ([]string, error) {
	f.wait()
	return f.units, f.err
}

// healthySources сразу отвечает для всех семейств.
func healthySources() collector.Sources {
	return collector.Sources{
		Load: &fakeLoad{
			avg:  collector.LoadAverages{Load1: 0.5, Load5: 0.4, Load15: 0.3, Tasks: 120},
			cpus: 4,
		},
		Memory: &fakeMemory{
			mem:  collector.Usage{Used: 4 << 30, Total: 8 << 30},
			swap: collector.Usage{Used: 0, Total: 2 << 30},
		},
		Mounts: &fakeMounts{
			mounts: []collector.Mount{{Device: "/dev/sda1", Path: "/", Type: "ext4"}},
			usage:  map[string]collector.Usage{"/": {Used: 10, Total: 100}},
		},
		Sensors: []collector.SensorSource{&fakeSensors{
			name:   "hwmon",
			list:   []sensors.Sensor{{Label: "Package id 0"}},
			values: map[string]sensors.Value{"Package id 0": {Celsius: 45}},
		}},
		Net: &fakeNet{samples: [][]collector.NetCounters{{{Name: "eth0", RxBytes: 1000, TxBytes: 1000}}}},
		Units: &fakeUnits{},
	}
}

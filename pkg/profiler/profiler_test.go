package profiler_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"motd/pkg/profiler"
)

func TestProfilesWritten(t *testing.T) {
	dir := t.TempDir()
	cfg := profiler.Config{
		CPUProfile: filepath.Join(dir, "cpu.pprof"),
		MemProfile: filepath.Join(dir, "mem.pprof"),
	}
	require.True(t, cfg.Enabled())

	p := profiler.New(cfg, zap.NewNop())
	require.NoError(t, p.Start())
	require.NoError(t, p.Stop())

	for _, path := range []string{cfg.CPUProfile, cfg.MemProfile} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestDisabledProfilerIsNoop(t *testing.T) {
	cfg := profiler.Config{}
	assert.False(t, cfg.Enabled())

	p := profiler.New(cfg, zap.NewNop())
	assert.NoError(t, p.Start())
	assert.NoError(t, p.Stop())
}

func TestUnwritableProfile(t *testing.T) {
	p := profiler.New(profiler.Config{
		CPUProfile: filepath.Join(t.TempDir(), "missing", "cpu.pprof"),
	}, zap.NewNop())
	assert.Error(t, p.Start())
}

package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"motd/internal/collector"
	"motd/internal/config"
)

func TestRootCommandFlags(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"sections", "no-titles", "columns", "config", "budget", "metrics-file"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "s", cmd.Flags().Lookup("sections").Shorthand)
	assert.Equal(t, "-80", cmd.Flags().Lookup("columns").DefValue)
}

func TestUseColor(t *testing.T) {
	assert.True(t, useColor("always"))
	assert.False(t, useColor("never"))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, useColor("auto"))
}

func TestSourcesHddtempOptional(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags(nil))
	cfg, err := config.Load(cmd)
	require.NoError(t, err)

	assert.Len(t, sources(cfg, zap.NewNop()).Sensors, 2)

	cfg.Temp.HddtempAddr = ""
	assert.Len(t, sources(cfg, zap.NewNop()).Sensors, 1)
}

type memSource struct {
	memErr, swapErr error
}

func (m memSource) Memory(context.Context) (collector.Usage, error) {
	return collector.Usage{Used: 1 << 30, Total: 4 << 30}, m.memErr
}

func (m memSource) Swap(context.Context) (collector.Usage, error) {
	return collector.Usage{Used: 1 << 20, Total: 1 << 30}, m.swapErr
}

func executeWith(t *testing.T, src collector.Sources) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetContext(context.Background())
	require.NoError(t, cmd.ParseFlags([]string{"--sections", "m,s", "--columns", "60", "--color", "never"}))

	err := execute(cmd, func(*config.Config, *zap.Logger) collector.Sources { return src })
	return out.String(), errOut.String(), err
}

func TestExecutePartialFailureSucceeds(t *testing.T) {
	out, errOut, err := executeWith(t, collector.Sources{
		Memory: memSource{swapErr: errors.New("no /proc/swaps")},
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Memory usage")
	assert.NotContains(t, out, "Swap usage")
	assert.Contains(t, errOut, "Failed to get data for 'Swap usage' section: no /proc/swaps")
}

func TestExecuteEveryFamilyFailed(t *testing.T) {
	broken := errors.New("no /proc/meminfo")
	out, errOut, err := executeWith(t, collector.Sources{
		Memory: memSource{memErr: broken, swapErr: broken},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, broken)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "'Memory usage'")
	assert.Contains(t, errOut, "'Swap usage'")
}

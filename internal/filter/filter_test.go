package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motd/internal/filter"
)

func TestDevMountPathRule(t *testing.T) {
	rules := filter.MustCompile(filter.MountPath, `^/dev($|/)`)

	assert.True(t, filter.IsExcluded(filter.MountPath, "/dev", rules))
	assert.True(t, filter.IsExcluded(filter.MountPath, "/dev/shm", rules))
	assert.False(t, filter.IsExcluded(filter.MountPath, "/deviceX", rules))
	assert.False(t, filter.IsExcluded(filter.MountPath, "/", rules))
}

func TestRulesOnlyApplyToTheirField(t *testing.T) {
	rules := filter.Merge(
		filter.MustCompile(filter.MountType, `^tmpfs$`),
		filter.MustCompile(filter.SensorLabel, `^SYSTIN$`, `^CPUTIN$`),
	)

	assert.True(t, rules.Excludes(filter.MountType, "tmpfs"))
	assert.False(t, rules.Excludes(filter.MountPath, "tmpfs"))
	assert.True(t, rules.Excludes(filter.SensorLabel, "CPUTIN"))
	assert.False(t, rules.Excludes(filter.SensorLabel, "Core 0"))
	assert.False(t, rules.Excludes(filter.Interface, "SYSTIN"))
}

func TestEmptyRulesExcludeNothing(t *testing.T) {
	var rules filter.Rules
	assert.False(t, rules.Excludes(filter.Interface, "lo"))
}

func TestCompileRejectsMalformedPattern(t *testing.T) {
	_, err := filter.Compile(filter.Unit, []string{`ok\.service`, `([`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unit")
	assert.Contains(t, err.Error(), "([")
}

func TestMustCompilePanics(t *testing.T) {
	assert.Panics(t, func() { filter.MustCompile(filter.Interface, `*`) })
}

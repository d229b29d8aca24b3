package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverResolveDefaultsOnly(t *testing.T) {
	r := NewResolver(DefaultConfig())
	cfg := r.Resolve()
	assert.Equal(t, 3, cfg.Helix.ThreadCount)
	assert.Equal(t, 150, cfg.Helix.InitialSeedCount)
	assert.Equal(t, 7, cfg.Repetition.InitialReps)
}

func TestResolverCourseOverridesWin(t *testing.T) {
	r := NewResolver(DefaultConfig())
	r.SetCourseOverrides(Overrides{
		"helix": {"thread_count": 5},
	})
	cfg := r.Resolve()
	assert.Equal(t, 5, cfg.Helix.ThreadCount)
	// Untouched keys fall through to system defaults.
	assert.Equal(t, 150, cfg.Helix.InitialSeedCount)
}

func TestResolverLearnerOverridesWinOverCourse(t *testing.T) {
	r := NewResolver(DefaultConfig())
	r.SetCourseOverrides(Overrides{"helix": {"thread_count": 5}})
	r.SetLearnerOverrides(Overrides{"helix": {"thread_count": 2}})
	cfg := r.Resolve()
	assert.Equal(t, 2, cfg.Helix.ThreadCount)
}

func TestResolverUpdateLearnerParam(t *testing.T) {
	r := NewResolver(DefaultConfig())
	r.UpdateLearnerParam("spike", "cooldown_items", 7)
	cfg := r.Resolve()
	assert.Equal(t, 7, cfg.Spike.CooldownItems)
	// Unrelated keys within the section are untouched.
	assert.Equal(t, 10, cfg.Spike.RollingWindowSize)
}

// TestUpdateThenResetRoundTrip exercises the §8 testable property: update
// followed by reset restores exactly the pre-update configuration.
func TestUpdateThenResetRoundTrip(t *testing.T) {
	r := NewResolver(DefaultConfig())
	before := r.Resolve()

	r.UpdateLearnerParam("repetition", "initial_reps", 99)
	mid := r.Resolve()
	assert.NotEqual(t, before.Repetition.InitialReps, mid.Repetition.InitialReps)

	r.ResetLearnerOverrides()
	after := r.Resolve()
	assert.Equal(t, before, after)
}

func TestUnknownSectionAndKeyAreIgnored(t *testing.T) {
	r := NewResolver(DefaultConfig())
	before := r.Resolve()

	r.SetLearnerOverrides(Overrides{
		"not_a_real_section": {"whatever": 123},
		"helix":              {"not_a_real_key": 123},
	})
	after := r.Resolve()
	assert.Equal(t, before, after)
}

func TestOverrideWrongTypeIsIgnored(t *testing.T) {
	r := NewResolver(DefaultConfig())
	r.UpdateLearnerParam("helix", "thread_count", "not-an-int")
	cfg := r.Resolve()
	assert.Equal(t, 3, cfg.Helix.ThreadCount)
}

func TestExportImportOverridesRoundTrip(t *testing.T) {
	r := NewResolver(DefaultConfig())
	r.SetCourseOverrides(Overrides{"helix": {"thread_count": 4}})
	r.SetLearnerOverrides(Overrides{"spike": {"cooldown_items": 9}})

	data, err := r.ExportOverrides()
	require.NoError(t, err)

	r2 := NewResolver(DefaultConfig())
	require.NoError(t, r2.ImportOverrides(data))

	assert.Equal(t, r.Resolve(), r2.Resolve())
}

func TestGetParam(t *testing.T) {
	r := NewResolver(DefaultConfig())
	v, ok := r.GetParam("helix", "thread_count")
	require.True(t, ok)
	assert.Equal(t, 3, v)

	_, ok = r.GetParam("helix", "nonexistent")
	assert.False(t, ok)

	_, ok = r.GetParam("nonexistent", "thread_count")
	assert.False(t, ok)
}

func TestGetSection(t *testing.T) {
	r := NewResolver(DefaultConfig())
	kv, ok := r.Get("spike")
	require.True(t, ok)
	assert.Equal(t, 10, kv["rolling_window_size"])
	assert.Equal(t, string(ResponseRepeat), kv["response_strategy"])
}

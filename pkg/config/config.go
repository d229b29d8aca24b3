package config

import (
	"fmt"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// Resolver resolves a LearningConfig from three layered partials: system
// defaults, course overrides, and learner overrides (§4.1). It never
// mutates the partials it holds; Resolve always returns a fresh value.
type Resolver struct {
	system  LearningConfig
	course  Overrides
	learner Overrides
	logger  *log.Logger
}

// NewResolver creates a resolver seeded with the given system defaults.
func NewResolver(system LearningConfig) *Resolver {
	return &Resolver{system: system}
}

// WithLogger attaches an optional logger used for best-effort diagnostics
// (e.g. a learner override that fails validator sanity checks). A nil
// logger disables logging entirely; this method is safe to skip.
func (r *Resolver) WithLogger(logger *log.Logger) *Resolver {
	r.logger = logger
	return r
}

// Resolve performs the deep-by-section merge: course overrides the
// system layer, learner overrides both. Per-key override wins; undefined
// keys fall through (§4.1).
func (r *Resolver) Resolve() LearningConfig {
	cfg := r.system
	for section, kv := range r.course {
		applySectionOverrides(&cfg, section, kv)
	}
	for section, kv := range r.learner {
		applySectionOverrides(&cfg, section, kv)
	}
	return cfg
}

// SetCourseOverrides replaces the entire course-layer partial.
func (r *Resolver) SetCourseOverrides(overrides Overrides) {
	r.course = overrides.Clone()
}

// SetLearnerOverrides replaces the entire learner-layer partial.
func (r *Resolver) SetLearnerOverrides(overrides Overrides) {
	r.learner = overrides.Clone()
}

// UpdateLearnerParam upserts a single key in the learner layer. With a
// logger attached, the resolved config is validated afterwards and a
// failure is logged as a warning; the override is kept either way.
func (r *Resolver) UpdateLearnerParam(section, key string, value any) {
	if r.learner == nil {
		r.learner = Overrides{}
	}
	if r.learner[section] == nil {
		r.learner[section] = map[string]any{}
	}
	r.learner[section][key] = value
	if r.logger != nil {
		cfg := r.Resolve()
		if err := NewValidator(&cfg).ValidateAll(); err != nil {
			r.logger.Warn("learner override fails validation", "section", section, "key", key, "error", err)
		}
	}
}

// ResetLearnerOverrides clears the learner layer entirely, restoring
// whatever resolve() produced before any update_learner_param calls.
func (r *Resolver) ResetLearnerOverrides() {
	r.learner = nil
}

// Get returns the resolved value of an entire section as a generic map,
// the shape a host uses to introspect or re-export configuration without
// depending on the concrete Go struct.
func (r *Resolver) Get(section string) (map[string]any, bool) {
	return sectionToMap(r.Resolve(), section)
}

// GetParam returns the resolved value of a single key within a section.
func (r *Resolver) GetParam(section, key string) (any, bool) {
	kv, ok := r.Get(section)
	if !ok {
		return nil, false
	}
	v, ok := kv[key]
	return v, ok
}

// exportedOverrides is the on-wire shape for export/import: both override
// layers, nothing else. The system layer is never exported — it belongs
// to the host's config loading, not to a learner's or course's state.
type exportedOverrides struct {
	Course  Overrides `yaml:"course,omitempty"`
	Learner Overrides `yaml:"learner,omitempty"`
}

// ExportOverrides serializes the course and learner layers to YAML.
func (r *Resolver) ExportOverrides() ([]byte, error) {
	out, err := yaml.Marshal(exportedOverrides{Course: r.course, Learner: r.learner})
	if err != nil {
		return nil, fmt.Errorf("export overrides: %w", err)
	}
	return out, nil
}

// ImportOverrides replaces both override layers from a previous export.
func (r *Resolver) ImportOverrides(data []byte) error {
	var decoded exportedOverrides
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("import overrides: %w", err)
	}
	r.course = decoded.Course
	r.learner = decoded.Learner
	return nil
}

func sectionToMap(cfg LearningConfig, section string) (map[string]any, bool) {
	switch section {
	case "helix":
		h := cfg.Helix
		return map[string]any{
			"thread_count":                  h.ThreadCount,
			"initial_seed_count":            h.InitialSeedCount,
			"distribution_method":           string(h.DistributionMethod),
			"content_injection_max_threads": h.ContentInjectionMaxThreads,
		}, true
	case "repetition":
		rp := cfg.Repetition
		return map[string]any{
			"initial_reps":          rp.InitialReps,
			"min_reps":              rp.MinReps,
			"max_reps":              rp.MaxReps,
			"fibonacci_sequence":    rp.FibonacciSequence,
			"core_sentence_count":   rp.CoreSentenceCount,
			"core_refresh_hours":    rp.CoreRefreshHours,
			"adaptive_reps_enabled": rp.AdaptiveRepsEnabled,
			"advancement_threshold": rp.AdvancementThreshold,
			"fast_track_threshold":  rp.FastTrackThreshold,
		}, true
	case "cycle":
		c := cfg.Cycle
		return map[string]any{
			"pause_duration_ms":            c.PauseDurationMs,
			"min_pause_ms":                 c.MinPauseMs,
			"max_pause_ms":                 c.MaxPauseMs,
			"transition_gap_ms":            c.TransitionGapMs,
			"pause_adapts_to_phrase_length": c.PauseAdaptsToPhraseLength,
		}, true
	case "spike":
		s := cfg.Spike
		return map[string]any{
			"rolling_window_size":      s.RollingWindowSize,
			"threshold_percent":        s.ThresholdPercent,
			"response_strategy":        string(s.ResponseStrategy),
			"alternate_sequence":       s.AlternateSequence,
			"cooldown_items":           s.CooldownItems,
			"use_stddev_detection":     s.UseStddevDetection,
			"stddev_threshold":         s.StddevThreshold,
			"pause_extension_enabled":  s.PauseExtensionEnabled,
			"pause_extension_factor":   s.PauseExtensionFactor,
			"pause_extension_duration": s.PauseExtensionDuration,
		}, true
	case "lego_introduction":
		l := cfg.LegoIntroduction
		return map[string]any{
			"max_build_phrases":           l.MaxBuildPhrases,
			"spaced_rep_interleave_count": l.SpacedRepInterleaveCount,
			"consolidation_count":         l.ConsolidationCount,
		}, true
	case "content_injection":
		ci := cfg.ContentInjection
		return map[string]any{
			"enabled":      ci.Enabled,
			"max_per_call": ci.MaxPerCall,
		}, true
	case "offline":
		o := cfg.Offline
		return map[string]any{
			"precache_enabled":     o.PrecacheEnabled,
			"precache_ahead_count": o.PrecacheAheadCount,
		}, true
	case "session":
		s := cfg.Session
		return map[string]any{
			"auto_end_on_idle":     s.AutoEndOnIdle,
			"idle_timeout_seconds": s.IdleTimeoutSeconds,
		}, true
	case "features":
		f := cfg.Features
		return map[string]any{
			"spike_detection_enabled": f.SpikeDetectionEnabled,
			"timing_signals_enabled":  f.TimingSignalsEnabled,
		}, true
	case "vad":
		v := cfg.VAD
		return map[string]any{
			"quick_response_ms": v.QuickResponseMs,
		}, true
	case "selector":
		s := cfg.Selector
		return map[string]any{
			"staleness_rate":         s.StalenessRate,
			"struggle_multiplier":    s.StruggleMultiplier,
			"recency_window_minutes": s.RecencyWindowMinutes,
		}, true
	case "adaptation":
		a := cfg.Adaptation
		return map[string]any{
			"latency_weight":                   a.LatencyWeight,
			"pause_multiplier_min":              a.PauseMultiplierMin,
			"pause_multiplier_max":              a.PauseMultiplierMax,
			"responsiveness":                    a.Responsiveness,
			"calibration_min_items":             a.CalibrationMinItems,
			"calibration_max_items":             a.CalibrationMaxItems,
			"calibration_auto_complete":         a.CalibrationAutoComplete,
			"calibration_min_std_dev":           a.CalibrationMinStdDev,
			"calibration_min_duration_std_dev":  a.CalibrationMinDurationStdDev,
		}, true
	default:
		return nil, false
	}
}

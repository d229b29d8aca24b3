package config

// LearningConfig is the fully resolved configuration consumed by the
// scheduler's sub-engines. It is produced by Resolver.Resolve and never
// mutated in place; every resolve builds a fresh value.
type LearningConfig struct {
	Helix            HelixConfig            `yaml:"helix"`
	Repetition       RepetitionConfig       `yaml:"repetition"`
	Cycle            CycleConfig            `yaml:"cycle"`
	Spike            SpikeConfig            `yaml:"spike"`
	LegoIntroduction LegoIntroductionConfig `yaml:"lego_introduction"`
	ContentInjection ContentInjectionConfig `yaml:"content_injection"`
	Offline          OfflineConfig          `yaml:"offline"`
	Session          SessionConfig          `yaml:"session"`
	Features         FeatureFlags           `yaml:"features"`
	VAD              VADConfig              `yaml:"vad"`
	Selector         SelectorConfig         `yaml:"selector"`
	Adaptation       AdaptationConfig       `yaml:"adaptation"`
}

// HelixConfig governs thread multiplexing and seed distribution (§4.9).
type HelixConfig struct {
	ThreadCount                int                `yaml:"thread_count"`
	InitialSeedCount           int                `yaml:"initial_seed_count"`
	DistributionMethod         DistributionMethod `yaml:"distribution_method"`
	ContentInjectionMaxThreads int                `yaml:"content_injection_max_threads"`
}

// RepetitionConfig governs the per-thread Fibonacci spaced-repetition queue
// (§4.6) and the mastery advancement thresholds that gate its progression
// (§4.4, homeless in the abridged spec's section list).
type RepetitionConfig struct {
	InitialReps          int     `yaml:"initial_reps"`
	MinReps              int     `yaml:"min_reps"`
	MaxReps              int     `yaml:"max_reps"`
	FibonacciSequence    []int   `yaml:"fibonacci_sequence"`
	CoreSentenceCount    int     `yaml:"core_sentence_count"`
	CoreRefreshHours     float64 `yaml:"core_refresh_hours"`
	AdaptiveRepsEnabled  bool    `yaml:"adaptive_reps_enabled"`
	AdvancementThreshold int     `yaml:"advancement_threshold"`
	FastTrackThreshold   int     `yaml:"fast_track_threshold"`
}

// CycleConfig governs presentation pacing (pause/transition durations).
type CycleConfig struct {
	PauseDurationMs           int  `yaml:"pause_duration_ms"`
	MinPauseMs                int  `yaml:"min_pause_ms"`
	MaxPauseMs                int  `yaml:"max_pause_ms"`
	TransitionGapMs           int  `yaml:"transition_gap_ms"`
	PauseAdaptsToPhraseLength bool `yaml:"pause_adapts_to_phrase_length"`
}

// SpikeConfig governs discontinuity detection (§4.3).
type SpikeConfig struct {
	RollingWindowSize      int              `yaml:"rolling_window_size"`
	ThresholdPercent       float64          `yaml:"threshold_percent"`
	ResponseStrategy       ResponseStrategy `yaml:"response_strategy"`
	AlternateSequence      []ResponseStrategy `yaml:"alternate_sequence"`
	CooldownItems          int              `yaml:"cooldown_items"`
	UseStddevDetection     bool             `yaml:"use_stddev_detection"`
	StddevThreshold        float64          `yaml:"stddev_threshold"`
	PauseExtensionEnabled  bool             `yaml:"pause_extension_enabled"`
	PauseExtensionFactor   float64          `yaml:"pause_extension_factor"`
	PauseExtensionDuration int              `yaml:"pause_extension_duration"`
}

// LegoIntroductionConfig governs the Round orchestrator's introduction
// phases (§4.8).
type LegoIntroductionConfig struct {
	MaxBuildPhrases          int `yaml:"max_build_phrases"`
	SpacedRepInterleaveCount int `yaml:"spaced_rep_interleave_count"`
	ConsolidationCount       int `yaml:"consolidation_count"`
}

// ContentInjectionConfig governs mid-session course content injection.
type ContentInjectionConfig struct {
	Enabled    bool `yaml:"enabled"`
	MaxPerCall int  `yaml:"max_per_call"`
}

// OfflineConfig governs host-side precaching hints.
type OfflineConfig struct {
	PrecacheEnabled  bool `yaml:"precache_enabled"`
	PrecacheAheadCount int `yaml:"precache_ahead_count"`
}

// SessionConfig governs session-level bookkeeping.
type SessionConfig struct {
	AutoEndOnIdle     bool `yaml:"auto_end_on_idle"`
	IdleTimeoutSeconds int `yaml:"idle_timeout_seconds"`
}

// FeatureFlags gates optional behaviors.
type FeatureFlags struct {
	SpikeDetectionEnabled bool `yaml:"spike_detection_enabled"`
	TimingSignalsEnabled  bool `yaml:"timing_signals_enabled"`
}

// VADConfig governs the voice-activity-detection timing thresholds
// consumed by AdaptationEngine.process_completion when timing data is
// present (§4.10). VAD itself is an out-of-scope collaborator (§1); the
// core only owns the thresholds it reacts to.
type VADConfig struct {
	QuickResponseMs int `yaml:"quick_response_ms"`
}

// SelectorConfig governs WeightedSelector's per-candidate weighting
// (§4.5, homeless in the abridged spec's section list).
type SelectorConfig struct {
	StalenessRate     float64 `yaml:"staleness_rate"`
	StruggleMultiplier float64 `yaml:"struggle_multiplier"`
	RecencyWindowMinutes float64 `yaml:"recency_window_minutes"`
}

// AdaptationConfig governs AdaptationEngine's continuous scoring and
// calibration constants (§4.10, homeless in the abridged spec's section
// list).
type AdaptationConfig struct {
	LatencyWeight              float64 `yaml:"latency_weight"`
	PauseMultiplierMin         float64 `yaml:"pause_multiplier_min"`
	PauseMultiplierMax         float64 `yaml:"pause_multiplier_max"`
	Responsiveness             float64 `yaml:"responsiveness"`
	CalibrationMinItems        int     `yaml:"calibration_min_items"`
	CalibrationMaxItems        int     `yaml:"calibration_max_items"`
	CalibrationAutoComplete    bool    `yaml:"calibration_auto_complete"`
	CalibrationMinStdDev       float64 `yaml:"calibration_min_std_dev"`
	CalibrationMinDurationStdDev float64 `yaml:"calibration_min_duration_std_dev"`
}

// Overrides holds one layer (course or learner) of partial configuration:
// section name -> key -> value. Keys absent from a layer fall through to
// the layer beneath (§4.1). Values are whatever YAML/Go type the caller
// supplied for that key; merge.go applies them with type assertions and
// silently ignores anything it cannot interpret (§7 InvalidConfigOverride).
type Overrides map[string]map[string]any

// Clone returns a deep copy so the resolver never aliases caller-owned
// maps.
func (o Overrides) Clone() Overrides {
	if o == nil {
		return nil
	}
	out := make(Overrides, len(o))
	for section, kv := range o {
		inner := make(map[string]any, len(kv))
		for k, v := range kv {
			inner[k] = v
		}
		out[section] = inner
	}
	return out
}

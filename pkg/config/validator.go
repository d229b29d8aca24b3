package config

import "fmt"

// Validator validates a resolved LearningConfig's sanity ranges. It is not
// on the core's critical path (§7 InvalidConfigOverride is best-effort and
// never blocks a single update_learner_param call), but hosts can run it
// after resolve() to surface a structured error before handing the config
// to the engines.
type Validator struct {
	cfg *LearningConfig
}

// NewValidator creates a validator for the given resolved configuration.
func NewValidator(cfg *LearningConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateAll runs the helix, repetition, cycle, spike, lego_introduction,
// selector and adaptation checks in that order, stopping at the first
// failure. The content_injection, offline, session, features and vad
// sections are not checked.
func (v *Validator) ValidateAll() error {
	if err := v.validateHelix(); err != nil {
		return fmt.Errorf("helix validation failed: %w", err)
	}
	if err := v.validateRepetition(); err != nil {
		return fmt.Errorf("repetition validation failed: %w", err)
	}
	if err := v.validateCycle(); err != nil {
		return fmt.Errorf("cycle validation failed: %w", err)
	}
	if err := v.validateSpike(); err != nil {
		return fmt.Errorf("spike validation failed: %w", err)
	}
	if err := v.validateLegoIntroduction(); err != nil {
		return fmt.Errorf("lego_introduction validation failed: %w", err)
	}
	if err := v.validateSelector(); err != nil {
		return fmt.Errorf("selector validation failed: %w", err)
	}
	if err := v.validateAdaptation(); err != nil {
		return fmt.Errorf("adaptation validation failed: %w", err)
	}
	return nil
}

func (v *Validator) validateHelix() error {
	h := v.cfg.Helix
	if h.ThreadCount < 1 {
		return NewValidationError("helix", "", "thread_count", fmt.Errorf("must be at least 1, got %d", h.ThreadCount))
	}
	if h.InitialSeedCount < 0 {
		return NewValidationError("helix", "", "initial_seed_count", fmt.Errorf("must be non-negative, got %d", h.InitialSeedCount))
	}
	if !h.DistributionMethod.IsValid() {
		return NewValidationError("helix", "", "distribution_method", fmt.Errorf("invalid distribution method: %s", h.DistributionMethod))
	}
	if h.ContentInjectionMaxThreads < 0 {
		return NewValidationError("helix", "", "content_injection_max_threads", fmt.Errorf("must be non-negative, got %d", h.ContentInjectionMaxThreads))
	}
	return nil
}

func (v *Validator) validateRepetition() error {
	r := v.cfg.Repetition
	if r.MinReps < 0 {
		return NewValidationError("repetition", "", "min_reps", fmt.Errorf("must be non-negative, got %d", r.MinReps))
	}
	if r.InitialReps < r.MinReps {
		return NewValidationError("repetition", "", "initial_reps", fmt.Errorf("must be >= min_reps (%d), got %d", r.MinReps, r.InitialReps))
	}
	if r.MaxReps < r.InitialReps {
		return NewValidationError("repetition", "", "max_reps", fmt.Errorf("must be >= initial_reps (%d), got %d", r.InitialReps, r.MaxReps))
	}
	if len(r.FibonacciSequence) == 0 {
		return NewValidationError("repetition", "", "fibonacci_sequence", fmt.Errorf("must not be empty"))
	}
	for i, v := range r.FibonacciSequence {
		if v < 0 {
			return NewValidationError("repetition", "", "fibonacci_sequence", fmt.Errorf("element %d is negative: %d", i, v))
		}
	}
	if r.AdvancementThreshold < 1 {
		return NewValidationError("repetition", "", "advancement_threshold", fmt.Errorf("must be at least 1, got %d", r.AdvancementThreshold))
	}
	if r.FastTrackThreshold < 1 {
		return NewValidationError("repetition", "", "fast_track_threshold", fmt.Errorf("must be at least 1, got %d", r.FastTrackThreshold))
	}
	return nil
}

func (v *Validator) validateCycle() error {
	c := v.cfg.Cycle
	if c.MinPauseMs < 0 {
		return NewValidationError("cycle", "", "min_pause_ms", fmt.Errorf("must be non-negative, got %d", c.MinPauseMs))
	}
	if c.MaxPauseMs < c.MinPauseMs {
		return NewValidationError("cycle", "", "max_pause_ms", fmt.Errorf("must be >= min_pause_ms (%d), got %d", c.MinPauseMs, c.MaxPauseMs))
	}
	if c.PauseDurationMs < c.MinPauseMs || c.PauseDurationMs > c.MaxPauseMs {
		return NewValidationError("cycle", "", "pause_duration_ms", fmt.Errorf("must be within [%d, %d], got %d", c.MinPauseMs, c.MaxPauseMs, c.PauseDurationMs))
	}
	if c.TransitionGapMs < 0 {
		return NewValidationError("cycle", "", "transition_gap_ms", fmt.Errorf("must be non-negative, got %d", c.TransitionGapMs))
	}
	return nil
}

func (v *Validator) validateSpike() error {
	s := v.cfg.Spike
	if s.RollingWindowSize < 1 {
		return NewValidationError("spike", "", "rolling_window_size", fmt.Errorf("must be at least 1, got %d", s.RollingWindowSize))
	}
	if s.ThresholdPercent <= 0 {
		return NewValidationError("spike", "", "threshold_percent", fmt.Errorf("must be positive, got %v", s.ThresholdPercent))
	}
	if !s.ResponseStrategy.IsValid() {
		return NewValidationError("spike", "", "response_strategy", fmt.Errorf("invalid response strategy: %s", s.ResponseStrategy))
	}
	for i, alt := range s.AlternateSequence {
		if !alt.IsValid() {
			return NewValidationError("spike", "", "alternate_sequence", fmt.Errorf("element %d is invalid: %s", i, alt))
		}
	}
	if s.CooldownItems < 0 {
		return NewValidationError("spike", "", "cooldown_items", fmt.Errorf("must be non-negative, got %d", s.CooldownItems))
	}
	if s.StddevThreshold <= 0 {
		return NewValidationError("spike", "", "stddev_threshold", fmt.Errorf("must be positive, got %v", s.StddevThreshold))
	}
	if s.PauseExtensionFactor < 0 {
		return NewValidationError("spike", "", "pause_extension_factor", fmt.Errorf("must be non-negative, got %v", s.PauseExtensionFactor))
	}
	if s.PauseExtensionDuration < 0 {
		return NewValidationError("spike", "", "pause_extension_duration", fmt.Errorf("must be non-negative, got %d", s.PauseExtensionDuration))
	}
	return nil
}

func (v *Validator) validateLegoIntroduction() error {
	l := v.cfg.LegoIntroduction
	if l.MaxBuildPhrases < 0 {
		return NewValidationError("lego_introduction", "", "max_build_phrases", fmt.Errorf("must be non-negative, got %d", l.MaxBuildPhrases))
	}
	if l.SpacedRepInterleaveCount < 0 {
		return NewValidationError("lego_introduction", "", "spaced_rep_interleave_count", fmt.Errorf("must be non-negative, got %d", l.SpacedRepInterleaveCount))
	}
	if l.ConsolidationCount < 0 {
		return NewValidationError("lego_introduction", "", "consolidation_count", fmt.Errorf("must be non-negative, got %d", l.ConsolidationCount))
	}
	return nil
}

func (v *Validator) validateSelector() error {
	s := v.cfg.Selector
	if s.StalenessRate < 0 {
		return NewValidationError("selector", "", "staleness_rate", fmt.Errorf("must be non-negative, got %v", s.StalenessRate))
	}
	if s.StruggleMultiplier < 0 {
		return NewValidationError("selector", "", "struggle_multiplier", fmt.Errorf("must be non-negative, got %v", s.StruggleMultiplier))
	}
	if s.RecencyWindowMinutes <= 0 {
		return NewValidationError("selector", "", "recency_window_minutes", fmt.Errorf("must be positive, got %v", s.RecencyWindowMinutes))
	}
	return nil
}

func (v *Validator) validateAdaptation() error {
	a := v.cfg.Adaptation
	if a.LatencyWeight < 0 || a.LatencyWeight > 1 {
		return NewValidationError("adaptation", "", "latency_weight", fmt.Errorf("must be within [0, 1], got %v", a.LatencyWeight))
	}
	if a.PauseMultiplierMin <= 0 {
		return NewValidationError("adaptation", "", "pause_multiplier_min", fmt.Errorf("must be positive, got %v", a.PauseMultiplierMin))
	}
	if a.PauseMultiplierMax < a.PauseMultiplierMin {
		return NewValidationError("adaptation", "", "pause_multiplier_max", fmt.Errorf("must be >= pause_multiplier_min (%v), got %v", a.PauseMultiplierMin, a.PauseMultiplierMax))
	}
	if a.Responsiveness <= 0 || a.Responsiveness > 1 {
		return NewValidationError("adaptation", "", "responsiveness", fmt.Errorf("must be within (0, 1], got %v", a.Responsiveness))
	}
	if a.CalibrationMinItems < 1 {
		return NewValidationError("adaptation", "", "calibration_min_items", fmt.Errorf("must be at least 1, got %d", a.CalibrationMinItems))
	}
	if a.CalibrationMaxItems < a.CalibrationMinItems {
		return NewValidationError("adaptation", "", "calibration_max_items", fmt.Errorf("must be >= calibration_min_items (%d), got %d", a.CalibrationMinItems, a.CalibrationMaxItems))
	}
	if a.CalibrationMinStdDev <= 0 {
		return NewValidationError("adaptation", "", "calibration_min_std_dev", fmt.Errorf("must be positive, got %v", a.CalibrationMinStdDev))
	}
	if a.CalibrationMinDurationStdDev <= 0 {
		return NewValidationError("adaptation", "", "calibration_min_duration_std_dev", fmt.Errorf("must be positive, got %v", a.CalibrationMinDurationStdDev))
	}
	return nil
}

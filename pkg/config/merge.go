package config

// Per-section merge functions, one per LearningConfig section, in the
// teacher's explicit override-wins style (pkg/config/merge.go): no
// reflection, each key is applied with a type assertion and silently
// skipped when absent or the wrong shape (§7 InvalidConfigOverride).

func applyHelixOverrides(cfg *HelixConfig, kv map[string]any) {
	if v, ok := kv["thread_count"].(int); ok {
		cfg.ThreadCount = v
	}
	if v, ok := kv["initial_seed_count"].(int); ok {
		cfg.InitialSeedCount = v
	}
	if v, ok := kv["distribution_method"].(string); ok {
		if m := DistributionMethod(v); m.IsValid() {
			cfg.DistributionMethod = m
		}
	}
	if v, ok := kv["content_injection_max_threads"].(int); ok {
		cfg.ContentInjectionMaxThreads = v
	}
}

func applyRepetitionOverrides(cfg *RepetitionConfig, kv map[string]any) {
	if v, ok := kv["initial_reps"].(int); ok {
		cfg.InitialReps = v
	}
	if v, ok := kv["min_reps"].(int); ok {
		cfg.MinReps = v
	}
	if v, ok := kv["max_reps"].(int); ok {
		cfg.MaxReps = v
	}
	if v, ok := kv["fibonacci_sequence"].([]int); ok {
		cfg.FibonacciSequence = v
	}
	if v, ok := kv["core_sentence_count"].(int); ok {
		cfg.CoreSentenceCount = v
	}
	if v, ok := kv["core_refresh_hours"].(float64); ok {
		cfg.CoreRefreshHours = v
	}
	if v, ok := kv["adaptive_reps_enabled"].(bool); ok {
		cfg.AdaptiveRepsEnabled = v
	}
	if v, ok := kv["advancement_threshold"].(int); ok {
		cfg.AdvancementThreshold = v
	}
	if v, ok := kv["fast_track_threshold"].(int); ok {
		cfg.FastTrackThreshold = v
	}
}

func applyCycleOverrides(cfg *CycleConfig, kv map[string]any) {
	if v, ok := kv["pause_duration_ms"].(int); ok {
		cfg.PauseDurationMs = v
	}
	if v, ok := kv["min_pause_ms"].(int); ok {
		cfg.MinPauseMs = v
	}
	if v, ok := kv["max_pause_ms"].(int); ok {
		cfg.MaxPauseMs = v
	}
	if v, ok := kv["transition_gap_ms"].(int); ok {
		cfg.TransitionGapMs = v
	}
	if v, ok := kv["pause_adapts_to_phrase_length"].(bool); ok {
		cfg.PauseAdaptsToPhraseLength = v
	}
}

func applySpikeOverrides(cfg *SpikeConfig, kv map[string]any) {
	if v, ok := kv["rolling_window_size"].(int); ok {
		cfg.RollingWindowSize = v
	}
	if v, ok := kv["threshold_percent"].(float64); ok {
		cfg.ThresholdPercent = v
	}
	if v, ok := kv["response_strategy"].(string); ok {
		if s := ResponseStrategy(v); s.IsValid() {
			cfg.ResponseStrategy = s
		}
	}
	if v, ok := kv["alternate_sequence"].([]ResponseStrategy); ok {
		cfg.AlternateSequence = v
	}
	if v, ok := kv["cooldown_items"].(int); ok {
		cfg.CooldownItems = v
	}
	if v, ok := kv["use_stddev_detection"].(bool); ok {
		cfg.UseStddevDetection = v
	}
	if v, ok := kv["stddev_threshold"].(float64); ok {
		cfg.StddevThreshold = v
	}
	if v, ok := kv["pause_extension_enabled"].(bool); ok {
		cfg.PauseExtensionEnabled = v
	}
	if v, ok := kv["pause_extension_factor"].(float64); ok {
		cfg.PauseExtensionFactor = v
	}
	if v, ok := kv["pause_extension_duration"].(int); ok {
		cfg.PauseExtensionDuration = v
	}
}

func applyLegoIntroductionOverrides(cfg *LegoIntroductionConfig, kv map[string]any) {
	if v, ok := kv["max_build_phrases"].(int); ok {
		cfg.MaxBuildPhrases = v
	}
	if v, ok := kv["spaced_rep_interleave_count"].(int); ok {
		cfg.SpacedRepInterleaveCount = v
	}
	if v, ok := kv["consolidation_count"].(int); ok {
		cfg.ConsolidationCount = v
	}
}

func applyContentInjectionOverrides(cfg *ContentInjectionConfig, kv map[string]any) {
	if v, ok := kv["enabled"].(bool); ok {
		cfg.Enabled = v
	}
	if v, ok := kv["max_per_call"].(int); ok {
		cfg.MaxPerCall = v
	}
}

func applyOfflineOverrides(cfg *OfflineConfig, kv map[string]any) {
	if v, ok := kv["precache_enabled"].(bool); ok {
		cfg.PrecacheEnabled = v
	}
	if v, ok := kv["precache_ahead_count"].(int); ok {
		cfg.PrecacheAheadCount = v
	}
}

func applySessionOverrides(cfg *SessionConfig, kv map[string]any) {
	if v, ok := kv["auto_end_on_idle"].(bool); ok {
		cfg.AutoEndOnIdle = v
	}
	if v, ok := kv["idle_timeout_seconds"].(int); ok {
		cfg.IdleTimeoutSeconds = v
	}
}

func applyFeaturesOverrides(cfg *FeatureFlags, kv map[string]any) {
	if v, ok := kv["spike_detection_enabled"].(bool); ok {
		cfg.SpikeDetectionEnabled = v
	}
	if v, ok := kv["timing_signals_enabled"].(bool); ok {
		cfg.TimingSignalsEnabled = v
	}
}

func applyVADOverrides(cfg *VADConfig, kv map[string]any) {
	if v, ok := kv["quick_response_ms"].(int); ok {
		cfg.QuickResponseMs = v
	}
}

func applySelectorOverrides(cfg *SelectorConfig, kv map[string]any) {
	if v, ok := kv["staleness_rate"].(float64); ok {
		cfg.StalenessRate = v
	}
	if v, ok := kv["struggle_multiplier"].(float64); ok {
		cfg.StruggleMultiplier = v
	}
	if v, ok := kv["recency_window_minutes"].(float64); ok {
		cfg.RecencyWindowMinutes = v
	}
}

func applyAdaptationOverrides(cfg *AdaptationConfig, kv map[string]any) {
	if v, ok := kv["latency_weight"].(float64); ok {
		cfg.LatencyWeight = v
	}
	if v, ok := kv["pause_multiplier_min"].(float64); ok {
		cfg.PauseMultiplierMin = v
	}
	if v, ok := kv["pause_multiplier_max"].(float64); ok {
		cfg.PauseMultiplierMax = v
	}
	if v, ok := kv["responsiveness"].(float64); ok {
		cfg.Responsiveness = v
	}
	if v, ok := kv["calibration_min_items"].(int); ok {
		cfg.CalibrationMinItems = v
	}
	if v, ok := kv["calibration_max_items"].(int); ok {
		cfg.CalibrationMaxItems = v
	}
	if v, ok := kv["calibration_auto_complete"].(bool); ok {
		cfg.CalibrationAutoComplete = v
	}
	if v, ok := kv["calibration_min_std_dev"].(float64); ok {
		cfg.CalibrationMinStdDev = v
	}
	if v, ok := kv["calibration_min_duration_std_dev"].(float64); ok {
		cfg.CalibrationMinDurationStdDev = v
	}
}

// applySectionOverrides dispatches a single section's key/value overrides
// onto cfg in place. Unknown section names are a no-op: the caller
// (Resolver.Resolve) iterates only over sections present in an override
// layer, so an unrecognized section name is itself a silently ignored
// InvalidConfigOverride (§7).
func applySectionOverrides(cfg *LearningConfig, section string, kv map[string]any) {
	switch section {
	case "helix":
		applyHelixOverrides(&cfg.Helix, kv)
	case "repetition":
		applyRepetitionOverrides(&cfg.Repetition, kv)
	case "cycle":
		applyCycleOverrides(&cfg.Cycle, kv)
	case "spike":
		applySpikeOverrides(&cfg.Spike, kv)
	case "lego_introduction":
		applyLegoIntroductionOverrides(&cfg.LegoIntroduction, kv)
	case "content_injection":
		applyContentInjectionOverrides(&cfg.ContentInjection, kv)
	case "offline":
		applyOfflineOverrides(&cfg.Offline, kv)
	case "session":
		applySessionOverrides(&cfg.Session, kv)
	case "features":
		applyFeaturesOverrides(&cfg.Features, kv)
	case "vad":
		applyVADOverrides(&cfg.VAD, kv)
	case "selector":
		applySelectorOverrides(&cfg.Selector, kv)
	case "adaptation":
		applyAdaptationOverrides(&cfg.Adaptation, kv)
	}
}

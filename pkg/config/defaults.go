package config

// DefaultConfig returns the system-defaults layer (§4.1): the base every
// course and learner override sits on top of.
func DefaultConfig() LearningConfig {
	return LearningConfig{
		Helix: HelixConfig{
			ThreadCount:                3,
			InitialSeedCount:           150,
			DistributionMethod:         DistributionCardDeal,
			ContentInjectionMaxThreads: 2,
		},
		Repetition: RepetitionConfig{
			InitialReps:          7,
			MinReps:              3,
			MaxReps:              15,
			FibonacciSequence:    []int{1, 1, 2, 3, 5, 8, 13, 21, 34, 55, 89},
			CoreSentenceCount:    30,
			CoreRefreshHours:     5,
			AdaptiveRepsEnabled:  true,
			AdvancementThreshold: 3,
			FastTrackThreshold:   5,
		},
		Cycle: CycleConfig{
			PauseDurationMs:           3000,
			MinPauseMs:                1000,
			MaxPauseMs:                10000,
			TransitionGapMs:           500,
			PauseAdaptsToPhraseLength: true,
		},
		Spike: SpikeConfig{
			RollingWindowSize:      10,
			ThresholdPercent:       150,
			ResponseStrategy:       ResponseRepeat,
			AlternateSequence:      []ResponseStrategy{ResponseRepeat, ResponseBreakdown},
			CooldownItems:          3,
			UseStddevDetection:     true,
			StddevThreshold:        2.0,
			PauseExtensionEnabled:  true,
			PauseExtensionFactor:   0.3,
			PauseExtensionDuration: 3,
		},
		LegoIntroduction: LegoIntroductionConfig{
			MaxBuildPhrases:          7,
			SpacedRepInterleaveCount: 12,
			ConsolidationCount:       2,
		},
		ContentInjection: ContentInjectionConfig{
			Enabled:    true,
			MaxPerCall: 2,
		},
		Offline: OfflineConfig{
			PrecacheEnabled:    false,
			PrecacheAheadCount: 5,
		},
		Session: SessionConfig{
			AutoEndOnIdle:      false,
			IdleTimeoutSeconds: 600,
		},
		Features: FeatureFlags{
			SpikeDetectionEnabled: true,
			TimingSignalsEnabled:  false,
		},
		VAD: VADConfig{
			QuickResponseMs: 1200,
		},
		Selector: SelectorConfig{
			StalenessRate:        0.1,
			StruggleMultiplier:   0.5,
			RecencyWindowMinutes: 30,
		},
		Adaptation: AdaptationConfig{
			LatencyWeight:                0.7,
			PauseMultiplierMin:           0.7,
			PauseMultiplierMax:           1.8,
			Responsiveness:               0.3,
			CalibrationMinItems:          10,
			CalibrationMaxItems:          25,
			CalibrationAutoComplete:      true,
			CalibrationMinStdDev:         5,
			CalibrationMinDurationStdDev: 100,
		},
	}
}

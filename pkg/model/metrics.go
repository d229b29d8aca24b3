package model

import "time"

// ItemMode labels how a delivered item is being used.
type ItemMode string

const (
	ModeIntroduction ItemMode = "introduction"
	ModeReview       ItemMode = "review"
	ModePractice     ItemMode = "practice"
)

// SpeechTiming carries optional voice-activity-detection-derived timing
// fields a host may report alongside a completion (§4.10). VAD itself is
// an out-of-scope collaborator; the core only consumes these values.
type SpeechTiming struct {
	SpeechDetected        bool
	TrueLatencyMs         *int
	LearnerDurationMs     *int
	DurationDeltaMs       *int
	StartedDuringPrompt   bool
	StillSpeakingAtVoice1 bool
}

// ResponseMetric is a single recorded learner response.
type ResponseMetric struct {
	LegoID              string
	Timestamp           time.Time
	ResponseLatencyMs   int
	PhraseLength        int
	NormalizedLatency   float64
	ThreadID            int
	Mode                ItemMode
	TriggeredSpike      bool
	Timing              *SpeechTiming
}

// SpikeEvent records a detected discontinuity and the reaction taken.
type SpikeEvent struct {
	ID             string
	LegoID         string
	Timestamp      time.Time
	Latency        float64
	RollingAverage float64
	SpikeRatio     float64
	Response       SpikeResponseKind
	ThreadID       int
}

// SpikeResponseKind is the reaction SpikeDetector selects for an
// out-of-cooldown discontinuity.
type SpikeResponseKind string

const (
	SpikeResponseNone      SpikeResponseKind = "none"
	SpikeResponseRepeat    SpikeResponseKind = "repeat"
	SpikeResponseBreakdown SpikeResponseKind = "breakdown"
)

// LatencyBaseline is a calibrated mean/std-dev pair.
type LatencyBaseline struct {
	Mean   float64
	StdDev float64
}

// LearnerBaseline is the per-learner calibration result AdaptationEngine
// blends with session stats once calibration completes (§4.10).
type LearnerBaseline struct {
	CalibratedAt      time.Time
	CalibrationItems  int
	Latency           LatencyBaseline
	DurationDelta     LatencyBaseline
	HadTimingData     bool
}

// SessionMetrics is the summary MetricsTracker.EndSession returns.
type SessionMetrics struct {
	ID                  string
	StartedAt           time.Time
	EndedAt             *time.Time
	Responses           []ResponseMetric
	Spikes              []SpikeEvent
	FinalRollingAverage float64
}

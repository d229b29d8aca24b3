package model

// CalibrationState is AdaptationEngine's per-learner calibration phase
// (§4.10).
type CalibrationState string

const (
	CalibrationNotStarted CalibrationState = "not_started"
	CalibrationInProgress CalibrationState = "in_progress"
	CalibrationCompleted  CalibrationState = "completed"
	CalibrationSkipped    CalibrationState = "skipped"
)

// BreakdownState tracks an in-flight component-by-component breakdown
// response for a Molecular LEGO: each call advances through
// component_ids, then cycles back through progressively larger prefixes
// before clearing.
type BreakdownState struct {
	LegoID       string
	ComponentIDs []string
	CurrentIndex int
	InBuildup    bool
}

// PerformanceScore is ContinuousPerformanceScore's per-response result.
// During calibration it is neutral: Overall is 0, HasZScores is false.
type PerformanceScore struct {
	Overall         float64
	LatencyZ        float64
	DurationDeltaZ  float64
	HasZScores      bool
	InCalibration   bool
}

// TimingCompetence classifies a response's VAD-derived timing (§4.10).
type TimingCompetence string

const (
	CompetenceNeutral    TimingCompetence = "neutral"
	CompetenceStruggling TimingCompetence = "struggling"
	CompetenceConfident  TimingCompetence = "confident"
)

// PauseRecommendation is the timing signal's advisory for the host's
// pause before the next item.
type PauseRecommendation string

const (
	PauseNormal PauseRecommendation = "normal"
	PauseExtend PauseRecommendation = "extend_pause"
)

// TimingCompetenceSignal is the derived read on a single response's VAD
// timing flags.
type TimingCompetenceSignal struct {
	Competence TimingCompetence
	Pause      PauseRecommendation
}

package adaptation

import (
	"github.com/ssi-learning/scheduler/pkg/model"
)

// timingCompetenceSignalLocked classifies a response's VAD timing from
// its flags alone: still speaking at voice 1 is Struggling with an
// extended pause; starting during the prompt with a latency under the
// quick-response threshold is Confident; anything else is Neutral. It
// does not consult the learner baseline, the session rolling stats, or
// the calibration state.
func (e *Engine) timingCompetenceSignalLocked(timing model.SpeechTiming, responseLatencyMs int) model.TimingCompetenceSignal {
	sig := model.TimingCompetenceSignal{Competence: model.CompetenceNeutral, Pause: model.PauseNormal}

	if timing.StillSpeakingAtVoice1 {
		sig.Competence = model.CompetenceStruggling
		sig.Pause = model.PauseExtend
		return sig
	}
	if timing.StartedDuringPrompt && responseLatencyMs < e.cfg.VAD.QuickResponseMs {
		sig.Competence = model.CompetenceConfident
		return sig
	}
	return sig
}

// updateContinuousScoreLocked computes this response's performance score
// and smooths currentPauseMultiplier toward its implied target. During
// calibration it is a no-op: no adaptation happens before a baseline
// exists.
func (e *Engine) updateContinuousScoreLocked(metric model.ResponseMetric, timing *model.SpeechTiming) model.PerformanceScore {
	if e.calibrationState == model.CalibrationInProgress || e.calibrationState == model.CalibrationNotStarted {
		return model.PerformanceScore{InCalibration: true}
	}

	effMeanLat, effStdLat, effMeanDD, effStdDD, ok := e.effectiveStatsLocked()
	if !ok {
		return model.PerformanceScore{}
	}

	score := model.PerformanceScore{HasZScores: true}
	if effStdLat > 0 {
		score.LatencyZ = (metric.NormalizedLatency - effMeanLat) / effStdLat
	}

	var durationDelta float64
	haveDurationDelta := false
	if timing != nil && timing.DurationDeltaMs != nil {
		durationDelta = float64(*timing.DurationDeltaMs)
		haveDurationDelta = true
	}
	if haveDurationDelta && effStdDD > 0 {
		score.DurationDeltaZ = (durationDelta - effMeanDD) / effStdDD
	}

	weight := e.cfg.Adaptation.LatencyWeight
	overall := -score.LatencyZ*weight - (absFloat(score.DurationDeltaZ)-1)*(1-weight)
	overall = clamp(overall, -1, 1)

	if timing != nil {
		if timing.StillSpeakingAtVoice1 {
			overall = minFloat(overall, -0.5)
		}
		if timing.StartedDuringPrompt && score.LatencyZ < -1 {
			overall = maxFloat(overall, 0.5)
		}
	}
	score.Overall = overall

	target := targetMultiplier(overall, e.cfg.Adaptation.PauseMultiplierMin, e.cfg.Adaptation.PauseMultiplierMax)
	e.currentPauseMultiplier += (target - e.currentPauseMultiplier) * e.cfg.Adaptation.Responsiveness

	return score
}

func targetMultiplier(score, min, max float64) float64 {
	if score >= 0 {
		return 1 - score*(1-min)
	}
	return 1 + (-score)*(max-1)
}

// effectiveStatsLocked returns the stats the continuous scorer reacts
// against: a calibrated baseline blended 70/30 with session rolling
// stats when one exists, else the session stats alone.
func (e *Engine) effectiveStatsLocked() (meanLat, stdLat, meanDD, stdDD float64, ok bool) {
	sessionMeanLat := e.metricsTracker.RollingAverage()
	sessionStdLat := e.metricsTracker.RollingStdDev()
	sessionMeanDD := e.metricsTracker.RollingAvgLengthDelta()
	sessionStdDD := e.metricsTracker.RollingStdDevLengthDelta()

	if !e.metricsTracker.HasEnoughData() && e.baseline == nil {
		return 0, 0, 0, 0, false
	}

	if e.baseline == nil {
		return sessionMeanLat, sessionStdLat, sessionMeanDD, sessionStdDD, true
	}

	const baselineWeight = 0.7
	const sessionWeight = 0.3
	meanLat = e.baseline.Latency.Mean*baselineWeight + sessionMeanLat*sessionWeight
	stdLat = e.baseline.Latency.StdDev*baselineWeight + sessionStdLat*sessionWeight
	meanDD = e.baseline.DurationDelta.Mean*baselineWeight + sessionMeanDD*sessionWeight
	stdDD = e.baseline.DurationDelta.StdDev*baselineWeight + sessionStdDD*sessionWeight
	return meanLat, stdLat, meanDD, stdDD, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

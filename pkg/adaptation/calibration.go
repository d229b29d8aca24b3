package adaptation

import (
	"errors"

	"github.com/ssi-learning/scheduler/pkg/model"
)

// ErrInsufficientCalibrationItems is returned by CompleteCalibration when
// fewer than the configured minimum number of responses were recorded
// (§7 InsufficientCalibrationItems).
var ErrInsufficientCalibrationItems = errors.New("insufficient calibration items")

// StartCalibration begins a fresh calibration pass.
func (e *Engine) StartCalibration() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calibrationState = model.CalibrationInProgress
	e.calibrationCount = 0
}

// CompleteCalibration builds a LearnerBaseline from the current rolling
// stats, applying the floors on latency/duration-delta std-dev so a
// too-quiet session never yields a baseline too tight to react against.
func (e *Engine) CompleteCalibration() (model.LearnerBaseline, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.completeCalibrationLocked()
}

func (e *Engine) completeCalibrationLocked() (model.LearnerBaseline, error) {
	if e.calibrationCount < e.cfg.Adaptation.CalibrationMinItems {
		return model.LearnerBaseline{}, ErrInsufficientCalibrationItems
	}

	latStdDev := e.metricsTracker.RollingStdDev()
	if latStdDev < e.cfg.Adaptation.CalibrationMinStdDev {
		latStdDev = e.cfg.Adaptation.CalibrationMinStdDev
	}
	ddStdDev := e.metricsTracker.RollingStdDevLengthDelta()
	hadTiming := ddStdDev > 0
	if ddStdDev < e.cfg.Adaptation.CalibrationMinDurationStdDev {
		ddStdDev = e.cfg.Adaptation.CalibrationMinDurationStdDev
	}

	baseline := model.LearnerBaseline{
		CalibratedAt:     e.clock.Now(),
		CalibrationItems: e.calibrationCount,
		Latency:          model.LatencyBaseline{Mean: e.metricsTracker.RollingAverage(), StdDev: latStdDev},
		DurationDelta:    model.LatencyBaseline{Mean: e.metricsTracker.RollingAvgLengthDelta(), StdDev: ddStdDev},
		HadTimingData:    hadTiming,
	}
	e.baseline = &baseline
	e.calibrationState = model.CalibrationCompleted
	return baseline, nil
}

// SkipCalibration marks calibration as skipped, optionally installing a
// pre-existing baseline (e.g. imported from a prior session).
func (e *Engine) SkipCalibration(baseline *model.LearnerBaseline) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calibrationState = model.CalibrationSkipped
	if baseline != nil {
		b := *baseline
		e.baseline = &b
	}
}

// ImportBaseline installs a previously exported baseline without
// changing the calibration state.
func (e *Engine) ImportBaseline(baseline model.LearnerBaseline) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.baseline = &baseline
}

// ExportBaseline returns the current baseline, if calibration has
// produced or been given one.
func (e *Engine) ExportBaseline() (model.LearnerBaseline, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.baseline == nil {
		return model.LearnerBaseline{}, false
	}
	return *e.baseline, true
}

// GetCalibrationState returns the current calibration phase.
func (e *Engine) GetCalibrationState() model.CalibrationState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calibrationState
}

// GetCalibrationProgress returns the number of responses recorded during
// the current (or most recent) calibration pass.
func (e *Engine) GetCalibrationProgress() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calibrationCount
}

// IsCalibrated reports whether a baseline is installed, however it got
// there (completed or skipped-with-baseline).
func (e *Engine) IsCalibrated() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.baseline != nil
}

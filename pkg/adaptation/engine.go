// Package adaptation implements AdaptationEngine (§4.10): the top-level
// façade composing MetricsTracker, SpikeDetector, MasteryStateMachine,
// WeightedSelector, and TripleHelixEngine, plus the continuous
// adaptation and calibration machinery none of those own individually.
package adaptation

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/ssi-learning/scheduler/pkg/config"
	"github.com/ssi-learning/scheduler/pkg/helix"
	"github.com/ssi-learning/scheduler/pkg/mastery"
	"github.com/ssi-learning/scheduler/pkg/metrics"
	"github.com/ssi-learning/scheduler/pkg/model"
	"github.com/ssi-learning/scheduler/pkg/phrase"
	"github.com/ssi-learning/scheduler/pkg/randsrc"
	"github.com/ssi-learning/scheduler/pkg/repetition"
	"github.com/ssi-learning/scheduler/pkg/round"
	"github.com/ssi-learning/scheduler/pkg/selector"
	"github.com/ssi-learning/scheduler/pkg/spike"
)

// Engine is the scheduler's single entry point: every host interaction
// goes through it.
type Engine struct {
	mu sync.Mutex

	cfg    config.LearningConfig
	clock  quartz.Clock
	logger *log.Logger

	metricsTracker *metrics.Tracker
	spikeDetector  *spike.Detector
	masteryMachine *mastery.Machine
	weightedSelect *selector.Selector
	helixEngine    *helix.Engine

	currentPauseMultiplier float64
	pauseExtended          bool
	pauseItemsRemaining    int

	calibrationState model.CalibrationState
	calibrationCount int
	baseline         *model.LearnerBaseline

	breakdown *model.BreakdownState

	lastScore model.PerformanceScore
}

// New wires every sub-engine from a resolved config. courseID scopes
// SpacedRepetitionQueue enrollments; clock/rnd/logger default to
// quartz.NewReal()/randsrc.New(1)/nil when zero-valued.
func New(cfg config.LearningConfig, clock quartz.Clock, rnd randsrc.Source, logger *log.Logger, courseID string) *Engine {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if rnd == nil {
		rnd = randsrc.New(1)
	}

	mt := metrics.New(cfg.Spike.RollingWindowSize, clock, logger)
	sd := spike.New(cfg.Spike, mt, clock)
	mm := mastery.New(cfg.Repetition, clock)
	sel := selector.New(cfg.Selector, clock, rnd)
	phraseSel := phrase.New()
	roundEng := round.New(cfg.LegoIntroduction, phraseSel, rnd)

	newQueue := func() *repetition.Queue {
		return repetition.New(cfg.Repetition.FibonacciSequence, cfg.Repetition.InitialReps, clock, rnd)
	}
	helixEng := helix.New(cfg.Helix, roundEng, phraseSel, rnd, courseID, newQueue)

	return &Engine{
		cfg:                    cfg,
		clock:                  clock,
		logger:                 logger,
		metricsTracker:         mt,
		spikeDetector:          sd,
		masteryMachine:         mm,
		weightedSelect:         sel,
		helixEngine:            helixEng,
		currentPauseMultiplier: 1.0,
		calibrationState:       model.CalibrationNotStarted,
	}
}

// StartSession begins a fresh metrics session.
func (e *Engine) StartSession(id string) {
	e.metricsTracker.StartSession(id)
}

// EndSession ends the current metrics session, if any.
func (e *Engine) EndSession() *model.SessionMetrics {
	return e.metricsTracker.EndSession()
}

// LoadSeeds distributes course content across the helix's threads.
func (e *Engine) LoadSeeds(seeds []model.SeedPair) {
	e.helixEngine.LoadSeeds(seeds)
}

// RegisterBasket attaches a classified basket to a LEGO.
func (e *Engine) RegisterBasket(legoID string, basket model.ClassifiedBasket) {
	e.helixEngine.RegisterBasket(legoID, basket)
}

// NextItem returns the next item to deliver, or nil if none is available.
func (e *Engine) NextItem() *model.LearningItem {
	return e.helixEngine.NextItem()
}

// AddMetricsListener registers a listener for MetricsTracker events.
func (e *Engine) AddMetricsListener(l metrics.Listener) {
	e.metricsTracker.AddListener(l)
}

// GetPauseDurationMultiplier returns the larger of the legacy discrete
// extension and the continuous multiplier (§9 Open Question 2).
func (e *Engine) GetPauseDurationMultiplier() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pauseDurationMultiplierLocked()
}

func (e *Engine) pauseDurationMultiplierLocked() float64 {
	if e.pauseExtended {
		legacy := 1 + e.cfg.Spike.PauseExtensionFactor
		if legacy > e.currentPauseMultiplier {
			return legacy
		}
	}
	return e.currentPauseMultiplier
}

// ProcessCompletion is the scheduler's core reactive step (§4.10,
// 13-step algorithm). wasFast is the legacy discrete signal; timing, when
// non-nil, overrides it via the configured quick-response threshold.
func (e *Engine) ProcessCompletion(item model.LearningItem, responseLatencyMs, pauseDurationMs int, wasFast bool, timing *model.SpeechTiming) model.AdaptedItem {
	e.mu.Lock()
	defer e.mu.Unlock()

	// 1. decrement the legacy discrete pause-extension counter.
	if e.pauseItemsRemaining > 0 {
		e.pauseItemsRemaining--
		if e.pauseItemsRemaining == 0 {
			e.pauseExtended = false
		}
	}

	// 2. continue an in-flight breakdown sequence, if any.
	if e.breakdown != nil {
		return e.continueBreakdownLocked()
	}

	// 3. resolve was_fast from timing when present.
	if timing != nil {
		wasFast = responseLatencyMs < e.cfg.VAD.QuickResponseMs
	}

	phraseLength := 1
	if item.Phrase != nil && item.Phrase.WordCount > 0 {
		phraseLength = item.Phrase.WordCount
	}

	// 4. record the response.
	metric := e.metricsTracker.RecordResponse(item.LegoID, responseLatencyMs, phraseLength, item.ThreadID, item.Mode, timing)

	// 5. update selector staleness bookkeeping.
	e.weightedSelect.UpdateAfterPractice(item.LegoID)

	// 6. calibration bookkeeping.
	if e.calibrationState == model.CalibrationInProgress {
		e.calibrationCount++
		auto := e.cfg.Adaptation.CalibrationAutoComplete && e.calibrationCount >= e.cfg.Adaptation.CalibrationMinItems
		forced := e.calibrationCount >= e.cfg.Adaptation.CalibrationMaxItems
		if auto || forced {
			_, _ = e.completeCalibrationLocked()
		}
	}

	// 7. timing competence signal (if timing present) and continuous score.
	var timingSignal *model.TimingCompetenceSignal
	if timing != nil {
		sig := e.timingCompetenceSignalLocked(*timing, responseLatencyMs)
		timingSignal = &sig
	}
	e.lastScore = e.updateContinuousScoreLocked(metric, timing)

	// 8. spike detection disabled: smooth update only.
	if !e.cfg.Features.SpikeDetectionEnabled {
		e.masteryMachine.RecordSmooth(item.LegoID, wasFast)
		return model.AdaptedItem{
			Action:          model.ActionContinue,
			Reason:          "spike_detection_disabled",
			PauseDurationMs: pauseDurationMs,
			PauseMultiplier: e.pauseDurationMultiplierLocked(),
		}
	}

	// 9. discontinuity detection.
	detection, response, spikeEvent := e.spikeDetector.ProcessResponse(item.LegoID, item.Kind, metric.NormalizedLatency, item.ThreadID)
	spikeActed := spikeEvent != nil

	// 10. combined assessment.
	isStruggling := spikeActed
	isConfident := !spikeActed
	if timingSignal != nil {
		isStruggling = isStruggling || timingSignal.Competence == model.CompetenceStruggling
		isConfident = isConfident && timingSignal.Competence == model.CompetenceConfident
	} else {
		isConfident = false
	}

	// 11. mastery + selector discontinuity bookkeeping.
	if isStruggling {
		severity := model.SeverityMild
		if spikeActed {
			severity = detection.Severity
		}
		e.masteryMachine.RecordDiscontinuity(item.LegoID, severity)
		e.weightedSelect.RecordDiscontinuity(item.LegoID)
	} else {
		e.masteryMachine.RecordSmooth(item.LegoID, isConfident || wasFast)
	}

	// 12. legacy discrete pause extension.
	extendRecommended := timingSignal != nil && timingSignal.Pause == model.PauseExtend
	if (spikeActed && !detection.InCooldown) || extendRecommended {
		if e.cfg.Spike.PauseExtensionEnabled {
			e.pauseExtended = true
			e.pauseItemsRemaining = e.cfg.Spike.PauseExtensionDuration
		}
	}

	// 13. translate to action.
	return e.translateResponseLocked(item, response, pauseDurationMs)
}

func (e *Engine) translateResponseLocked(item model.LearningItem, response model.SpikeResponseKind, pauseDurationMs int) model.AdaptedItem {
	mult := e.pauseDurationMultiplierLocked()

	switch response {
	case model.SpikeResponseRepeat:
		return model.AdaptedItem{Action: model.ActionRepeat, Reason: "spike_repeat", PauseDurationMs: pauseDurationMs, PauseMultiplier: mult}
	case model.SpikeResponseBreakdown:
		var componentIDs []string
		if item.Phrase != nil {
			componentIDs = item.Phrase.ContainsLegoIDs
		}
		if item.Kind == model.LegoKindMolecular && len(componentIDs) > 0 {
			e.breakdown = &model.BreakdownState{
				LegoID:       item.LegoID,
				ComponentIDs: componentIDs,
			}
			return model.AdaptedItem{Action: model.ActionBreakdown, Reason: "spike_breakdown_start", PauseDurationMs: pauseDurationMs, PauseMultiplier: mult}
		}
		return model.AdaptedItem{Action: model.ActionRepeat, Reason: "spike_breakdown_no_components", PauseDurationMs: pauseDurationMs, PauseMultiplier: mult}
	default:
		return model.AdaptedItem{Action: model.ActionContinue, Reason: "no_spike", PauseDurationMs: pauseDurationMs, PauseMultiplier: mult}
	}
}

// GetLastPerformanceScore returns the score computed by the most recent
// ProcessCompletion call.
func (e *Engine) GetLastPerformanceScore() model.PerformanceScore {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastScore
}

// RecordPractice delegates to the helix engine.
func (e *Engine) RecordPractice(legoID string, threadID int, successful, wasSpike bool) {
	e.helixEngine.RecordPractice(legoID, threadID, successful, wasSpike)
}

// GetHelixState, GetAllLegoProgress, and GetAllSeedProgress pass through
// to the helix engine for host-side persistence.
func (e *Engine) GetHelixState() model.HelixState                { return e.helixEngine.GetHelixState() }
func (e *Engine) GetAllLegoProgress() []model.LegoProgress       { return e.helixEngine.GetAllLegoProgress() }
func (e *Engine) GetAllSeedProgress() []model.SeedProgress       { return e.helixEngine.GetAllSeedProgress() }
func (e *Engine) GetAllMasteryStates() []model.LegoMasteryState  { return e.masteryMachine.GetAllStates() }
func (e *Engine) GetAllSelectorData() []model.SelectorLegoData   { return e.weightedSelect.GetAllLegoData() }

// LoadState restores helix, mastery, and selector bookkeeping from a
// persisted snapshot. Entries for unknown ids are ignored per-entry.
func (e *Engine) LoadState(helixState model.HelixState, legoProgress []model.LegoProgress, masteryStates []model.LegoMasteryState, selectorData []model.SelectorLegoData) {
	e.helixEngine.LoadState(helixState, legoProgress)
	e.masteryMachine.LoadStates(masteryStates)
	e.weightedSelect.LoadLegoData(selectorData)
}

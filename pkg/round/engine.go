// Package round implements RoundEngine (§4.8): the six-phase
// introduction sequence a LEGO walks through from its first audio cue to
// consolidation.
package round

import (
	"github.com/ssi-learning/scheduler/pkg/config"
	"github.com/ssi-learning/scheduler/pkg/model"
	"github.com/ssi-learning/scheduler/pkg/phrase"
	"github.com/ssi-learning/scheduler/pkg/randsrc"
)

// Result is a single Next call's outcome.
type Result struct {
	Item                *model.LearningItem
	Progress            model.LegoProgress
	State               model.RoundState
	RoundComplete       bool
	NeedsSpacedRepItem  bool
	IsIntroductionAudio bool
}

// Engine orchestrates one LEGO's introduction. It holds no per-LEGO
// state itself; callers pass progress/state in and receive the updated
// copies back.
type Engine struct {
	cfg      config.LegoIntroductionConfig
	selector *phrase.Selector
	rnd      randsrc.Source
}

// New creates an Engine bound to the lego_introduction config section.
// rnd feeds the consolidation phase's eternal-urn shuffles.
func New(cfg config.LegoIntroductionConfig, selector *phrase.Selector, rnd randsrc.Source) *Engine {
	return &Engine{cfg: cfg, selector: selector, rnd: rnd}
}

// NeedsRound reports whether a LEGO's introduction is still in flight.
func NeedsRound(progress model.LegoProgress) bool {
	return !progress.IntroductionComplete
}

// Next advances a LEGO's round state by one step.
func (e *Engine) Next(lego model.LegoPair, basket model.ClassifiedBasket, progress model.LegoProgress, state model.RoundState, threadID int) Result {
	if state.CurrentPhase == "" {
		state.CurrentPhase = model.RoundPhaseIntroAudio
	}
	if state.SpacedRepTarget == 0 {
		state.SpacedRepTarget = e.cfg.SpacedRepInterleaveCount
	}
	if state.ConsolidationRemaining == 0 && state.CurrentPhase != model.RoundPhaseConsolidation {
		state.ConsolidationRemaining = e.cfg.ConsolidationCount
	}

	switch state.CurrentPhase {
	case model.RoundPhaseIntroAudio:
		return e.introAudio(lego, basket, progress, state, threadID)
	case model.RoundPhaseComponents:
		state.CurrentPhase = model.RoundPhaseDebutLego
		return e.Next(lego, basket, progress, state, threadID)
	case model.RoundPhaseDebutLego:
		return e.debutLego(basket, progress, state, threadID)
	case model.RoundPhaseDebutPhrases:
		return e.debutPhrases(basket, progress, state, threadID)
	case model.RoundPhaseSpacedRep:
		return e.spacedRep(progress, state, threadID)
	case model.RoundPhaseConsolidation:
		return e.consolidation(basket, progress, state, threadID)
	default:
		state.CurrentPhase = model.RoundPhaseIntroAudio
		return e.Next(lego, basket, progress, state, threadID)
	}
}

func (e *Engine) introAudio(lego model.LegoPair, basket model.ClassifiedBasket, progress model.LegoProgress, state model.RoundState, threadID int) Result {
	if basket.IntroductionAudio != nil && !progress.IntroductionPlayed {
		progress.IntroductionPlayed = true
		state.CurrentPhase = model.RoundPhaseComponents
		item := &model.LearningItem{
			LegoID:              lego.ID,
			ThreadID:            threadID,
			Mode:                model.ModeIntroduction,
			IsIntroductionAudio: true,
		}
		return Result{Item: item, Progress: progress, State: state, IsIntroductionAudio: true}
	}
	state.CurrentPhase = model.RoundPhaseComponents
	return e.Next(lego, basket, progress, state, threadID)
}

func (e *Engine) debutLego(basket model.ClassifiedBasket, progress model.LegoProgress, state model.RoundState, threadID int) Result {
	debut := basket.Debut
	progress.IntroductionIndex = 1
	state.CurrentPhase = model.RoundPhaseDebutPhrases
	item := &model.LearningItem{
		LegoID:   basket.LegoID,
		ThreadID: threadID,
		Mode:     model.ModeIntroduction,
		Phrase:   &debut,
	}
	return Result{Item: item, Progress: progress, State: state}
}

func (e *Engine) debutPhrases(basket model.ClassifiedBasket, progress model.LegoProgress, state model.RoundState, threadID int) Result {
	buildCount := progress.IntroductionIndex - 1
	next := e.selector.SelectDebutPhrase(basket, progress)
	if buildCount >= e.cfg.MaxBuildPhrases || next == nil {
		state.CurrentPhase = model.RoundPhaseSpacedRep
		return e.spacedRep(progress, state, threadID)
	}
	progress.IntroductionIndex++
	item := &model.LearningItem{
		LegoID:   basket.LegoID,
		ThreadID: threadID,
		Mode:     model.ModeIntroduction,
		Phrase:   next,
	}
	return Result{Item: item, Progress: progress, State: state}
}

func (e *Engine) spacedRep(progress model.LegoProgress, state model.RoundState, threadID int) Result {
	if state.SpacedRepCompleted < state.SpacedRepTarget {
		state.SpacedRepCompleted++
		return Result{Progress: progress, State: state, NeedsSpacedRepItem: true}
	}
	state.CurrentPhase = model.RoundPhaseConsolidation
	return Result{Progress: progress, State: state}
}

func (e *Engine) consolidation(basket model.ClassifiedBasket, progress model.LegoProgress, state model.RoundState, threadID int) Result {
	if state.ConsolidationRemaining > 0 && len(basket.EternalPool) > 0 {
		p, tail, ok := e.selector.SelectEternalPhrase(basket, progress, phrase.EternalRandomUrn, e.rnd)
		if ok {
			progress.EternalUrn = tail
			progress.LastEternalPhraseID = p.ID
			state.ConsolidationRemaining--
			item := &model.LearningItem{
				LegoID:   basket.LegoID,
				ThreadID: threadID,
				Mode:     model.ModePractice,
				Phrase:   &p,
			}
			return Result{Item: item, Progress: progress, State: state}
		}
	}
	progress.IntroductionComplete = true
	return Result{Progress: progress, State: state, RoundComplete: true}
}

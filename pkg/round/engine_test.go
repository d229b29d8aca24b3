package round

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssi-learning/scheduler/pkg/config"
	"github.com/ssi-learning/scheduler/pkg/model"
	"github.com/ssi-learning/scheduler/pkg/phrase"
	"github.com/ssi-learning/scheduler/pkg/randsrc"
)

func newEngine(t *testing.T) *Engine {
	cfg := config.LegoIntroductionConfig{MaxBuildPhrases: 2, SpacedRepInterleaveCount: 1, ConsolidationCount: 1}
	return New(cfg, phrase.New(), randsrc.New(1))
}

func testLego() model.LegoPair {
	return model.LegoPair{ID: "lego-1", Pair: model.LanguagePair{TargetText: "hola"}}
}

func TestIntroAudioPhaseEmitsSyntheticItemOnce(t *testing.T) {
	e := newEngine(t)
	basket := model.ClassifiedBasket{LegoID: "lego-1", IntroductionAudio: &model.AudioRef{ID: "audio-1"}}

	r := e.Next(testLego(), basket, model.LegoProgress{}, model.RoundState{}, 1)
	require.NotNil(t, r.Item)
	assert.True(t, r.IsIntroductionAudio)
	assert.True(t, r.Progress.IntroductionPlayed)
	assert.Equal(t, model.RoundPhaseComponents, r.State.CurrentPhase)
}

func TestIntroAudioPhaseSkipsWhenNoAudio(t *testing.T) {
	e := newEngine(t)
	basket := model.ClassifiedBasket{LegoID: "lego-1", Debut: model.PracticePhrase{ID: "debut"}}

	r := e.Next(testLego(), basket, model.LegoProgress{}, model.RoundState{}, 1)
	require.NotNil(t, r.Item)
	assert.Equal(t, "debut", r.Item.Phrase.ID)
	assert.Equal(t, model.RoundPhaseDebutPhrases, r.State.CurrentPhase)
}

func TestDebutLegoSetsIntroductionIndex(t *testing.T) {
	e := newEngine(t)
	basket := model.ClassifiedBasket{LegoID: "lego-1", Debut: model.PracticePhrase{ID: "debut"}}
	state := model.RoundState{CurrentPhase: model.RoundPhaseDebutLego}

	r := e.Next(testLego(), basket, model.LegoProgress{}, state, 1)
	assert.Equal(t, 1, r.Progress.IntroductionIndex)
	assert.Equal(t, model.RoundPhaseDebutPhrases, r.State.CurrentPhase)
}

func TestDebutPhrasesAdvancesToSpacedRepWhenExhausted(t *testing.T) {
	e := newEngine(t)
	basket := model.ClassifiedBasket{LegoID: "lego-1"}
	state := model.RoundState{CurrentPhase: model.RoundPhaseDebutPhrases}
	progress := model.LegoProgress{IntroductionIndex: 1}

	r := e.Next(testLego(), basket, progress, state, 1)
	assert.Nil(t, r.Item)
	assert.True(t, r.NeedsSpacedRepItem)
}

func TestDebutPhrasesEmitsNextBuildPhrase(t *testing.T) {
	e := newEngine(t)
	basket := model.ClassifiedBasket{
		LegoID:       "lego-1",
		DebutPhrases: []model.PracticePhrase{{ID: "p1"}, {ID: "p2"}},
	}
	state := model.RoundState{CurrentPhase: model.RoundPhaseDebutPhrases}
	progress := model.LegoProgress{IntroductionIndex: 1}

	r := e.Next(testLego(), basket, progress, state, 1)
	require.NotNil(t, r.Item)
	assert.Equal(t, "p1", r.Item.Phrase.ID)
	assert.Equal(t, 2, r.Progress.IntroductionIndex)
}

func TestSpacedRepRequestsItemsUntilTarget(t *testing.T) {
	e := newEngine(t)
	basket := model.ClassifiedBasket{LegoID: "lego-1"}
	state := model.RoundState{CurrentPhase: model.RoundPhaseSpacedRep, SpacedRepTarget: 1}

	r := e.Next(testLego(), basket, model.LegoProgress{}, state, 1)
	assert.True(t, r.NeedsSpacedRepItem)
	assert.Equal(t, 1, r.State.SpacedRepCompleted)

	r = e.Next(testLego(), basket, r.Progress, r.State, 1)
	assert.Equal(t, model.RoundPhaseConsolidation, r.State.CurrentPhase)
}

func TestConsolidationEmitsEternalPhraseThenCompletes(t *testing.T) {
	e := newEngine(t)
	basket := model.ClassifiedBasket{
		LegoID:      "lego-1",
		EternalPool: []model.PracticePhrase{{ID: "e1"}},
	}
	state := model.RoundState{CurrentPhase: model.RoundPhaseConsolidation, ConsolidationRemaining: 1}

	r := e.Next(testLego(), basket, model.LegoProgress{}, state, 1)
	require.NotNil(t, r.Item)
	assert.Equal(t, model.ModePractice, r.Item.Mode)
	assert.False(t, r.RoundComplete)

	r2 := e.Next(testLego(), basket, r.Progress, r.State, 1)
	assert.True(t, r2.RoundComplete)
	assert.True(t, r2.Progress.IntroductionComplete)
}

func TestNeedsRound(t *testing.T) {
	assert.True(t, NeedsRound(model.LegoProgress{}))
	assert.False(t, NeedsRound(model.LegoProgress{IntroductionComplete: true}))
}

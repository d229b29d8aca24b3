package selector

import (
	"math"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssi-learning/scheduler/pkg/config"
	"github.com/ssi-learning/scheduler/pkg/model"
)

type fixedSource struct {
	draw float64
}

func (f fixedSource) Float64() float64 { return f.draw }
func (f fixedSource) Shuffle(n int, swap func(i, j int)) {}

func newSelector(t *testing.T, draw float64) (*Selector, *quartz.Mock) {
	clock := quartz.NewMock(t)
	cfg := config.SelectorConfig{
		StalenessRate:        0.1,
		StruggleMultiplier:   0.5,
		RecencyWindowMinutes: 30,
	}
	return New(cfg, clock, fixedSource{draw: draw}), clock
}

func TestSelectEmptyCandidatesReturnsError(t *testing.T) {
	s, _ := newSelector(t, 0.5)
	_, err := s.Select(nil)
	assert.ErrorIs(t, err, ErrEmptyCandidates)
}

func TestSelectSingleCandidateShortcut(t *testing.T) {
	s, _ := newSelector(t, 0.999)
	c, err := s.Select([]string{"lego-1"})
	require.NoError(t, err)
	assert.Equal(t, "lego-1", c.LegoID)
	assert.Equal(t, 1.0, c.Probability)
}

func TestSelectProbabilitiesSumToOne(t *testing.T) {
	s, clock := newSelector(t, 0.1)
	ids := []string{"a", "b", "c"}
	s.UpdateAfterPractice("a")
	s.RecordDiscontinuity("b")
	clock.Advance(2 * time.Hour)

	total := 0.0
	for _, id := range ids {
		total += s.weight(id, clock.Now())
	}
	assert.Greater(t, total, 0.0)

	_, err := s.Select(ids)
	require.NoError(t, err)

	probs := make([]float64, len(ids))
	sum := 0.0
	for i, id := range ids {
		probs[i] = s.weight(id, clock.Now())
		sum += probs[i]
	}
	normalizedSum := 0.0
	for _, p := range probs {
		normalizedSum += p / sum
	}
	assert.InDelta(t, 1.0, normalizedSum, 1e-9)
}

func TestSelectNeverPracticedWeighsHigher(t *testing.T) {
	s, clock := newSelector(t, 0.0)
	s.UpdateAfterPractice("practiced")
	clock.Advance(time.Minute)

	neverWeight := s.weight("never", clock.Now())
	practicedWeight := s.weight("practiced", clock.Now())
	assert.Greater(t, neverWeight, practicedWeight)
}

func TestSelectEqualWeightsGiveEqualProbability(t *testing.T) {
	cfg := config.SelectorConfig{StalenessRate: 0, StruggleMultiplier: 0, RecencyWindowMinutes: 30}
	clock := quartz.NewMock(t)
	s := New(cfg, clock, fixedSource{draw: 0.9})
	s.UpdateAfterPractice("a")
	s.UpdateAfterPractice("b")

	c, err := s.Select([]string{"a", "b"})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, c.Probability, 1e-9)
}

func TestSelectDrawsByCumulativeProbability(t *testing.T) {
	cfg := config.SelectorConfig{StalenessRate: 0, StruggleMultiplier: 0, RecencyWindowMinutes: 30}
	clock := quartz.NewMock(t)

	low := New(cfg, clock, fixedSource{draw: 0.1})
	low.UpdateAfterPractice("a")
	low.UpdateAfterPractice("b")
	c, err := low.Select([]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "a", c.LegoID)

	high := New(cfg, clock, fixedSource{draw: 0.9})
	high.UpdateAfterPractice("a")
	high.UpdateAfterPractice("b")
	c, err = high.Select([]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "b", c.LegoID)
}

func TestRecordDiscontinuityIncreasesWeight(t *testing.T) {
	s, clock := newSelector(t, 0.5)
	s.UpdateAfterPractice("a")
	s.UpdateAfterPractice("b")
	s.RecordDiscontinuity("b")

	wa := s.weight("a", clock.Now())
	wb := s.weight("b", clock.Now())
	assert.Greater(t, wb, wa)
}

func TestDecayDiscontinuityCountsClampsAtZero(t *testing.T) {
	s, clock := newSelector(t, 0.5)
	s.UpdateAfterPractice("a")
	s.RecordDiscontinuity("a")
	clock.Advance(48 * time.Hour)

	s.DecayDiscontinuityCounts(1.0, 5)

	all := s.GetAllLegoData()
	require.Len(t, all, 1)
	assert.Equal(t, 0, all[0].DiscontinuityCount)
}

func TestDecayDiscontinuityCountsIgnoresRecentPractice(t *testing.T) {
	s, clock := newSelector(t, 0.5)
	s.UpdateAfterPractice("a")
	s.RecordDiscontinuity("a")
	s.RecordDiscontinuity("a")
	clock.Advance(time.Hour)

	s.DecayDiscontinuityCounts(1.0, 5)

	all := s.GetAllLegoData()
	require.Len(t, all, 1)
	assert.Equal(t, 2, all[0].DiscontinuityCount)
}

func TestInitializeAndResetLego(t *testing.T) {
	s, _ := newSelector(t, 0.5)
	s.InitializeLego("a")
	s.RecordDiscontinuity("a")
	s.ResetLego("a")

	all := s.GetAllLegoData()
	require.Len(t, all, 1)
	assert.Equal(t, 0, all[0].DiscontinuityCount)
	assert.Nil(t, all[0].LastPracticeAt)
}

func TestClearAllData(t *testing.T) {
	s, _ := newSelector(t, 0.5)
	s.InitializeLego("a")
	s.InitializeLego("b")
	s.ClearAllData()
	assert.Empty(t, s.GetAllLegoData())
}

func TestLoadLegoData(t *testing.T) {
	s, _ := newSelector(t, 0.5)
	s.LoadLegoData([]model.SelectorLegoData{
		{LegoID: "a", DiscontinuityCount: 2},
	})
	all := s.GetAllLegoData()
	require.Len(t, all, 1)
	assert.Equal(t, "a", all[0].LegoID)
	assert.Equal(t, 2, all[0].DiscontinuityCount)
}

func TestWeightIsFinite(t *testing.T) {
	s, clock := newSelector(t, 0.5)
	w := s.weight("unknown", clock.Now())
	assert.False(t, math.IsInf(w, 0))
	assert.False(t, math.IsNaN(w))
}

// Package selector implements WeightedSelector (§4.5): weighted random
// sampling over a candidate set of LEGOs, favoring stale, struggled, and
// not-recently-practiced ones.
package selector

import (
	"sync"
	"time"

	"github.com/coder/quartz"

	"github.com/ssi-learning/scheduler/pkg/config"
	"github.com/ssi-learning/scheduler/pkg/model"
	"github.com/ssi-learning/scheduler/pkg/randsrc"
)

const neverPracticedDays = 365.0

// Selector owns per-LEGO staleness/struggle bookkeeping and draws
// weighted candidates from it.
type Selector struct {
	mu sync.Mutex

	cfg   config.SelectorConfig
	clock quartz.Clock
	rnd   randsrc.Source

	data map[string]*model.SelectorLegoData
}

// New creates a Selector. clock defaults to quartz.NewReal(), rnd
// defaults to randsrc.New(time-derived seed), when nil.
func New(cfg config.SelectorConfig, clock quartz.Clock, rnd randsrc.Source) *Selector {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if rnd == nil {
		rnd = randsrc.New(time.Now().UnixNano())
	}
	return &Selector{
		cfg:   cfg,
		clock: clock,
		rnd:   rnd,
		data:  make(map[string]*model.SelectorLegoData),
	}
}

func (s *Selector) getOrInit(legoID string) *model.SelectorLegoData {
	if d, ok := s.data[legoID]; ok {
		return d
	}
	d := &model.SelectorLegoData{LegoID: legoID}
	s.data[legoID] = d
	return d
}

// InitializeLego ensures a LEGO has a selector record, without altering
// one that already exists.
func (s *Selector) InitializeLego(legoID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getOrInit(legoID)
}

// ResetLego clears a single LEGO's bookkeeping back to its initial state.
func (s *Selector) ResetLego(legoID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[legoID] = &model.SelectorLegoData{LegoID: legoID}
}

// ClearAllData removes every LEGO's bookkeeping.
func (s *Selector) ClearAllData() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]*model.SelectorLegoData)
}

// UpdateAfterPractice stamps a LEGO's last-practice time to now.
func (s *Selector) UpdateAfterPractice(legoID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	s.getOrInit(legoID).LastPracticeAt = &now
}

// RecordDiscontinuity increments a LEGO's discontinuity count.
func (s *Selector) RecordDiscontinuity(legoID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getOrInit(legoID).DiscontinuityCount++
}

// DecayDiscontinuityCounts subtracts decayAmount (clamped at 0) from the
// discontinuity count of every LEGO last practiced longer ago than
// daysThreshold.
func (s *Selector) DecayDiscontinuityCounts(daysThreshold float64, decayAmount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	for _, d := range s.data {
		if d.LastPracticeAt == nil {
			continue
		}
		days := now.Sub(*d.LastPracticeAt).Hours() / 24
		if days <= daysThreshold {
			continue
		}
		d.DiscontinuityCount -= decayAmount
		if d.DiscontinuityCount < 0 {
			d.DiscontinuityCount = 0
		}
	}
}

// GetAllLegoData returns a snapshot of every LEGO's bookkeeping, for
// persistence.
func (s *Selector) GetAllLegoData() []model.SelectorLegoData {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.SelectorLegoData, 0, len(s.data))
	for _, d := range s.data {
		out = append(out, *d)
	}
	return out
}

// LoadLegoData replaces all bookkeeping from a persisted snapshot.
func (s *Selector) LoadLegoData(items []model.SelectorLegoData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]*model.SelectorLegoData, len(items))
	for i := range items {
		d := items[i]
		s.data[d.LegoID] = &d
	}
}

func (s *Selector) weight(legoID string, now time.Time) float64 {
	d, ok := s.data[legoID]
	if !ok || d.LastPracticeAt == nil {
		staleness := 1 + neverPracticedDays*s.cfg.StalenessRate
		struggle := 1.0
		if ok {
			struggle = 1 + float64(d.DiscontinuityCount)*s.cfg.StruggleMultiplier
		}
		return staleness * struggle * 1.0
	}

	daysSince := now.Sub(*d.LastPracticeAt).Hours() / 24
	minutesSince := now.Sub(*d.LastPracticeAt).Minutes()

	staleness := 1 + daysSince*s.cfg.StalenessRate
	struggle := 1 + float64(d.DiscontinuityCount)*s.cfg.StruggleMultiplier
	recencyRatio := minutesSince / s.cfg.RecencyWindowMinutes
	if recencyRatio > 1 {
		recencyRatio = 1
	}
	recency := 0.5 + 0.5*recencyRatio

	return staleness * struggle * recency
}

// Select draws one candidate from candidateLegoIDs by weighted random
// sampling. A single candidate is always returned with probability 1; a
// zero total weight falls back to a uniform draw.
func (s *Selector) Select(candidateLegoIDs []string) (model.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(candidateLegoIDs) == 0 {
		return model.Candidate{}, ErrEmptyCandidates
	}
	if len(candidateLegoIDs) == 1 {
		return model.Candidate{LegoID: candidateLegoIDs[0], Probability: 1.0}, nil
	}

	now := s.clock.Now()
	weights := make([]float64, len(candidateLegoIDs))
	total := 0.0
	for i, id := range candidateLegoIDs {
		weights[i] = s.weight(id, now)
		total += weights[i]
	}

	probs := make([]float64, len(candidateLegoIDs))
	if total <= 0 {
		uniform := 1.0 / float64(len(candidateLegoIDs))
		for i := range probs {
			probs[i] = uniform
		}
	} else {
		for i := range probs {
			probs[i] = weights[i] / total
		}
	}

	r := s.rnd.Float64()
	cumulative := 0.0
	for i, p := range probs {
		cumulative += p
		if cumulative > r {
			return model.Candidate{LegoID: candidateLegoIDs[i], Probability: probs[i]}, nil
		}
	}
	// Floating-point rounding: fall back to the last candidate.
	last := len(candidateLegoIDs) - 1
	return model.Candidate{LegoID: candidateLegoIDs[last], Probability: probs[last]}, nil
}

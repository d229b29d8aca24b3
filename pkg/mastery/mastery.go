// Package mastery implements MasteryStateMachine (§4.4): per-LEGO
// progression through Acquisition -> Consolidating -> Confident ->
// Mastered.
package mastery

import (
	"sync"

	"github.com/coder/quartz"

	"github.com/ssi-learning/scheduler/pkg/config"
	"github.com/ssi-learning/scheduler/pkg/model"
)

// Machine owns mastery state for every LEGO it has seen. States
// auto-initialize to Acquisition on first query (§4.4).
type Machine struct {
	mu sync.Mutex

	advancementThreshold int
	fastTrackThreshold   int
	clock                quartz.Clock

	states map[string]*model.LegoMasteryState
}

// New creates a Machine using the repetition section's advancement
// thresholds. clock defaults to quartz.NewReal() when nil.
func New(cfg config.RepetitionConfig, clock quartz.Clock) *Machine {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Machine{
		advancementThreshold: cfg.AdvancementThreshold,
		fastTrackThreshold:   cfg.FastTrackThreshold,
		clock:                clock,
		states:                make(map[string]*model.LegoMasteryState),
	}
}

func (m *Machine) getOrInit(legoID string) *model.LegoMasteryState {
	if s, ok := m.states[legoID]; ok {
		return s
	}
	now := m.clock.Now()
	s := &model.LegoMasteryState{
		LegoID:       legoID,
		CurrentState: model.MasteryAcquisition,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.states[legoID] = s
	return s
}

// GetState returns a LEGO's current mastery state, auto-initializing it.
func (m *Machine) GetState(legoID string) model.LegoMasteryState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.getOrInit(legoID)
}

// RecordSmooth processes a successful, non-discontinuous practice. It
// returns the transition emitted, or nil if no state change occurred.
func (m *Machine) RecordSmooth(legoID string, wasFast bool) *model.MasteryTransition {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.getOrInit(legoID)
	s.ConsecutiveSmooth++
	if wasFast {
		s.ConsecutiveFast++
	} else {
		s.ConsecutiveFast = 0
	}
	s.UpdatedAt = m.clock.Now()

	from := s.CurrentState
	switch {
	case s.ConsecutiveFast >= m.fastTrackThreshold:
		s.CurrentState = model.MasteryAt(model.MasteryIndex(from) + 2)
		s.ConsecutiveSmooth = 0
		s.ConsecutiveFast = 0
		if s.CurrentState == from {
			return nil
		}
		return &model.MasteryTransition{LegoID: legoID, Kind: model.TransitionFastTrack, From: from, To: s.CurrentState}
	case s.ConsecutiveSmooth >= m.advancementThreshold:
		s.CurrentState = model.MasteryAt(model.MasteryIndex(from) + 1)
		s.ConsecutiveSmooth = 0
		s.ConsecutiveFast = 0
		if s.CurrentState == from {
			return nil
		}
		return &model.MasteryTransition{LegoID: legoID, Kind: model.TransitionAdvancement, From: from, To: s.CurrentState}
	default:
		return nil
	}
}

// RecordDiscontinuity processes a struggling response of the given
// severity. It returns the transition emitted, or nil if the severity
// was Mild or the regression clamped with no actual change.
func (m *Machine) RecordDiscontinuity(legoID string, severity model.DiscontinuitySeverity) *model.MasteryTransition {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.getOrInit(legoID)
	s.DiscontinuityCount++
	now := m.clock.Now()
	s.LastDiscontinuityAt = &now
	s.UpdatedAt = now

	from := s.CurrentState
	switch severity {
	case model.SeverityMild:
		return nil
	case model.SeverityModerate:
		s.ConsecutiveSmooth = 0
		s.ConsecutiveFast = 0
		return &model.MasteryTransition{LegoID: legoID, Kind: model.TransitionHold, From: from, To: from}
	case model.SeveritySevere:
		s.ConsecutiveSmooth = 0
		s.ConsecutiveFast = 0
		s.CurrentState = model.MasteryAt(model.MasteryIndex(from) - 1)
		if s.CurrentState == from {
			return nil
		}
		return &model.MasteryTransition{LegoID: legoID, Kind: model.TransitionRegression, From: from, To: s.CurrentState}
	default:
		return nil
	}
}

// LoadStates replaces all mastery state from a persisted snapshot.
func (m *Machine) LoadStates(states []model.LegoMasteryState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states = make(map[string]*model.LegoMasteryState, len(states))
	for i := range states {
		s := states[i]
		m.states[s.LegoID] = &s
	}
}

// GetAllStates returns a snapshot of every LEGO's mastery state.
func (m *Machine) GetAllStates() []model.LegoMasteryState {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.LegoMasteryState, 0, len(m.states))
	for _, s := range m.states {
		out = append(out, *s)
	}
	return out
}

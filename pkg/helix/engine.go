// Package helix implements TripleHelixEngine (§4.9): distributes SEEDs
// across a fixed number of threads (card-deal), rotates between them, and
// hands the Round/SpacedRepetition machinery its next item.
package helix

import (
	"sync"

	"github.com/ssi-learning/scheduler/pkg/config"
	"github.com/ssi-learning/scheduler/pkg/model"
	"github.com/ssi-learning/scheduler/pkg/phrase"
	"github.com/ssi-learning/scheduler/pkg/randsrc"
	"github.com/ssi-learning/scheduler/pkg/repetition"
	"github.com/ssi-learning/scheduler/pkg/round"
)

type thread struct {
	state *model.ThreadState
	queue *repetition.Queue
}

// Engine owns every thread's queue and cursor and decides, on each call,
// which thread supplies the next item.
type Engine struct {
	mu sync.Mutex

	cfg       config.HelixConfig
	roundEng  *round.Engine
	selector  *phrase.Selector
	rnd       randsrc.Source
	courseID  string

	activeThread int
	threads      map[int]*thread

	seeds   map[string]model.SeedPair
	baskets map[string]model.ClassifiedBasket

	activeRoundLegoID string
	activeRoundThread int
	roundState        model.RoundState
}

// New creates an Engine. newQueue builds a fresh SpacedRepetitionQueue for
// each thread; whether threads share a priority jitter source is up to
// newQueue.
func New(cfg config.HelixConfig, roundEng *round.Engine, selector *phrase.Selector, rnd randsrc.Source, courseID string, newQueue func() *repetition.Queue) *Engine {
	e := &Engine{
		cfg:      cfg,
		roundEng: roundEng,
		selector: selector,
		rnd:      rnd,
		courseID: courseID,
		threads:  make(map[int]*thread, cfg.ThreadCount),
		seeds:    make(map[string]model.SeedPair),
		baskets:  make(map[string]model.ClassifiedBasket),
	}
	for i := 1; i <= cfg.ThreadCount; i++ {
		e.threads[i] = &thread{
			state: &model.ThreadState{IntroducedSeedIDs: make(map[string]bool)},
			queue: newQueue(),
		}
	}
	e.activeThread = 1
	return e
}

// RegisterBasket attaches a PhraseSelector-classified basket to a LEGO,
// so the engine can start Rounds and deliver spaced-rep/consolidation
// phrases for it.
func (e *Engine) RegisterBasket(legoID string, basket model.ClassifiedBasket) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.baskets[legoID] = basket
}

// LoadSeeds distributes seeds across threads card-deal style: seed i
// (0-indexed) goes to thread (i mod thread_count)+1, capped at
// initial_seed_count.
func (e *Engine) LoadSeeds(seeds []model.SeedPair) {
	e.mu.Lock()
	defer e.mu.Unlock()

	limit := e.cfg.InitialSeedCount
	if limit <= 0 || limit > len(seeds) {
		limit = len(seeds)
	}

	for i := 0; i < limit; i++ {
		seed := seeds[i]
		e.seeds[seed.SeedID] = seed
		threadID := (i % e.cfg.ThreadCount) + 1
		t := e.threads[threadID]
		t.state.SeedOrder = append(t.state.SeedOrder, seed.SeedID)
	}
	for _, t := range e.threads {
		if len(t.state.SeedOrder) > 0 && t.state.CurrentSeedID == "" {
			t.state.CurrentSeedID = t.state.SeedOrder[0]
		}
	}
}

func (e *Engine) findLego(legoID string) (model.LegoPair, bool) {
	for _, seed := range e.seeds {
		for _, l := range seed.Legos {
			if l.ID == legoID {
				return l, true
			}
		}
	}
	return model.LegoPair{}, false
}

func (e *Engine) basketOrFallback(legoID string) model.ClassifiedBasket {
	if b, ok := e.baskets[legoID]; ok {
		return b
	}
	lego, _ := e.findLego(legoID)
	return e.selector.ClassifyBasket(lego, nil, nil)
}

// NextItem returns the next item to deliver, following §4.9's priority
// order: continue an active Round, else the active thread's ready/new
// content, else rotate to the next thread with something to offer.
func (e *Engine) NextItem() *model.LearningItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.nextItemLocked()
}

func (e *Engine) nextItemLocked() *model.LearningItem {
	if e.activeRoundLegoID != "" {
		return e.continueRoundLocked()
	}

	if item := e.fromThreadLocked(e.activeThread); item != nil {
		return item
	}

	for offset := 1; offset < e.cfg.ThreadCount; offset++ {
		candidate := ((e.activeThread - 1 + offset) % e.cfg.ThreadCount) + 1
		if item := e.fromThreadLocked(candidate); item != nil {
			e.activeThread = candidate
			return item
		}
	}
	return nil
}

func (e *Engine) continueRoundLocked() *model.LearningItem {
	legoID := e.activeRoundLegoID
	threadID := e.activeRoundThread
	lego, _ := e.findLego(legoID)
	basket := e.basketOrFallback(legoID)
	progress, _ := e.threads[threadID].queue.GetProgress(legoID)

	res := e.roundEng.Next(lego, basket, progress, e.roundState, threadID)
	e.persistRoundResult(threadID, legoID, res)

	if res.Item != nil {
		return res.Item
	}
	if res.NeedsSpacedRepItem {
		if item := e.reviewFromOtherThreadLocked(threadID); item != nil {
			return item
		}
		// No other thread has anything ready; advance past SpacedRep.
		return e.continueRoundLocked()
	}
	if res.RoundComplete {
		e.activeRoundLegoID = ""
		e.activeRoundThread = 0
		e.roundState = model.RoundState{}
		return e.nextItemLocked()
	}
	return e.continueRoundLocked()
}

func (e *Engine) persistRoundResult(threadID int, legoID string, res round.Result) {
	e.roundState = res.State
	lego, _ := e.findLego(legoID)
	e.threads[threadID].queue.UpdateProgress(res.Progress, lego)
}

// reviewFromOtherThreadLocked scans every thread but excludeThread, in
// deterministic ascending round-robin order starting just past it, so the
// pick never depends on Go's randomized map iteration order (the engine's
// only permitted nondeterminism is the injected randsrc.Source).
func (e *Engine) reviewFromOtherThreadLocked(excludeThread int) *model.LearningItem {
	for offset := 1; offset < e.cfg.ThreadCount; offset++ {
		id := ((excludeThread-1+offset)%e.cfg.ThreadCount) + 1
		t, ok := e.threads[id]
		if !ok {
			continue
		}
		entry := t.queue.GetNext()
		if entry == nil {
			continue
		}
		basket := e.basketOrFallback(entry.Lego.ID)
		return e.createReviewItemLocked(entry.Lego, basket, entry.Progress, id)
	}
	return nil
}

func (e *Engine) createReviewItemLocked(lego model.LegoPair, basket model.ClassifiedBasket, progress model.LegoProgress, threadID int) *model.LearningItem {
	p, tail, ok := e.selector.SelectEternalPhrase(basket, progress, phrase.EternalRandomUrn, e.rnd)
	if !ok {
		return &model.LearningItem{LegoID: lego.ID, ThreadID: threadID, Mode: model.ModeReview}
	}
	progress.EternalUrn = tail
	progress.LastEternalPhraseID = p.ID
	e.threads[threadID].queue.UpdateProgress(progress, lego)
	return &model.LearningItem{LegoID: lego.ID, ThreadID: threadID, Mode: model.ModeReview, Phrase: &p}
}

func (e *Engine) fromThreadLocked(threadID int) *model.LearningItem {
	t, ok := e.threads[threadID]
	if !ok {
		return nil
	}

	if entry := t.queue.GetNext(); entry != nil {
		if round.NeedsRound(entry.Progress) {
			e.activeRoundLegoID = entry.Lego.ID
			e.activeRoundThread = threadID
			e.roundState = model.RoundState{}
			return e.continueRoundLocked()
		}
		basket := e.basketOrFallback(entry.Lego.ID)
		return e.createReviewItemLocked(entry.Lego, basket, entry.Progress, threadID)
	}

	return e.introduceNextLocked(threadID)
}

func (e *Engine) introduceNextLocked(threadID int) *model.LearningItem {
	t := e.threads[threadID]
	if t.state.CurrentSeedID == "" {
		return nil
	}
	seed, ok := e.seeds[t.state.CurrentSeedID]
	if !ok {
		return nil
	}

	for t.state.CurrentLegoIndex >= len(seed.Legos) {
		t.state.IntroducedSeedIDs[seed.SeedID] = true
		t.state.CurrentSeedIndex++
		if t.state.CurrentSeedIndex >= len(t.state.SeedOrder) {
			return nil
		}
		t.state.CurrentSeedID = t.state.SeedOrder[t.state.CurrentSeedIndex]
		t.state.CurrentLegoIndex = 0
		seed, ok = e.seeds[t.state.CurrentSeedID]
		if !ok {
			return nil
		}
	}

	lego := seed.Legos[t.state.CurrentLegoIndex]
	t.state.CurrentLegoIndex++
	t.queue.AddNew(lego, threadID, e.courseID)

	if _, ok := e.baskets[lego.ID]; ok {
		e.activeRoundLegoID = lego.ID
		e.activeRoundThread = threadID
		e.roundState = model.RoundState{}
		return e.continueRoundLocked()
	}

	return &model.LearningItem{LegoID: lego.ID, ThreadID: threadID, Mode: model.ModeIntroduction}
}

// RecordPractice delegates a completed practice to the owning thread's
// queue, decrements that thread's skip counters, and rotates the active
// thread forward by one.
func (e *Engine) RecordPractice(legoID string, threadID int, successful, spike bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.threads[threadID]
	if !ok {
		return
	}
	t.queue.RecordPractice(legoID, successful, spike)
	t.queue.DecrementSkipNumbers()

	e.activeThread = (threadID % e.cfg.ThreadCount) + 1
}

// GetHelixState returns the active thread and every thread's cursor, for
// persistence.
func (e *Engine) GetHelixState() model.HelixState {
	e.mu.Lock()
	defer e.mu.Unlock()

	threads := make(map[int]*model.ThreadState, len(e.threads))
	for id, t := range e.threads {
		s := *t.state
		threads[id] = &s
	}
	return model.HelixState{ActiveThread: e.activeThread, Threads: threads}
}

// GetAllLegoProgress returns every thread's enrolled LEGO progress.
func (e *Engine) GetAllLegoProgress() []model.LegoProgress {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []model.LegoProgress
	for _, t := range e.threads {
		out = append(out, t.queue.AllProgress()...)
	}
	return out
}

// GetAllSeedProgress returns every thread's per-seed introduction status.
func (e *Engine) GetAllSeedProgress() []model.SeedProgress {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []model.SeedProgress
	for threadID, t := range e.threads {
		for _, seedID := range t.state.SeedOrder {
			out = append(out, model.SeedProgress{
				SeedID:       seedID,
				ThreadID:     threadID,
				IsIntroduced: t.state.IntroducedSeedIDs[seedID],
			})
		}
	}
	return out
}

// LoadState restores thread cursors and LEGO progress from a persisted
// snapshot. Entries referring to unknown threads or LEGOs are ignored.
func (e *Engine) LoadState(helixState model.HelixState, legoProgress []model.LegoProgress) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if helixState.ActiveThread != 0 {
		e.activeThread = helixState.ActiveThread
	}
	for id, s := range helixState.Threads {
		t, ok := e.threads[id]
		if !ok || s == nil {
			continue
		}
		t.state = s
		if t.state.IntroducedSeedIDs == nil {
			t.state.IntroducedSeedIDs = make(map[string]bool)
		}
	}
	for _, p := range legoProgress {
		t, ok := e.threads[p.ThreadID]
		if !ok {
			continue
		}
		lego, _ := e.findLego(p.LegoID)
		t.queue.UpdateProgress(p, lego)
	}
}

// Package repetition implements the per-thread Fibonacci spaced-repetition
// queue (§4.6): each LEGO carries a skip counter and priority, and the
// queue surfaces whichever non-retired, non-skipped LEGO is due soonest.
package repetition

import (
	"container/heap"
	"math"
	"sync"

	"github.com/coder/quartz"

	"github.com/ssi-learning/scheduler/pkg/model"
	"github.com/ssi-learning/scheduler/pkg/randsrc"
)

// QueuedLego is a single LEGO's queue entry: its content, its progress,
// and its current priority (lower is sooner).
type QueuedLego struct {
	Lego     model.LegoPair
	Progress model.LegoProgress
	Priority float64
}

// Queue is one thread's SpacedRepetitionQueue.
type Queue struct {
	mu sync.Mutex

	fibonacci []int
	initial   int
	clock     quartz.Clock
	rnd       randsrc.Source

	entries map[string]*QueuedLego
}

// New creates a Queue bound to the repetition section's Fibonacci
// sequence and initial-reps threshold. clock/rnd default to
// quartz.NewReal()/randsrc.New when nil.
func New(fibonacci []int, initialReps int, clock quartz.Clock, rnd randsrc.Source) *Queue {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if rnd == nil {
		rnd = randsrc.New(1)
	}
	return &Queue{
		fibonacci: fibonacci,
		initial:   initialReps,
		clock:     clock,
		rnd:       rnd,
		entries:   make(map[string]*QueuedLego),
	}
}

// AddNew enrolls a LEGO with fresh progress: fibonacci_position=0,
// skip_number=0, reps_completed=0, is_retired=false.
func (q *Queue) AddNew(lego model.LegoPair, threadID int, courseID string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	progress := model.LegoProgress{
		LegoID:   lego.ID,
		CourseID: courseID,
		ThreadID: threadID,
	}
	entry := &QueuedLego{Lego: lego, Progress: progress}
	entry.Priority = q.priority(entry)
	q.entries[lego.ID] = entry
}

// GetNext returns the lowest-priority ready (non-retired, skip_number<=0)
// entry, or nil if none is ready.
func (q *Queue) GetNext() *QueuedLego {
	q.mu.Lock()
	defer q.mu.Unlock()

	ready := q.readyHeapLocked()
	if ready.Len() == 0 {
		return nil
	}
	top := (*ready)[0]
	copy := *top
	return &copy
}

// GetReady returns every ready entry sorted ascending by priority.
func (q *Queue) GetReady() []QueuedLego {
	q.mu.Lock()
	defer q.mu.Unlock()

	ready := q.readyHeapLocked()
	out := make([]QueuedLego, 0, ready.Len())
	for ready.Len() > 0 {
		e := heap.Pop(ready).(*QueuedLego)
		out = append(out, *e)
	}
	return out
}

func (q *Queue) readyHeapLocked() *priorityHeap {
	h := &priorityHeap{}
	heap.Init(h)
	for _, e := range q.entries {
		if e.Progress.IsRetired || e.Progress.SkipNumber > 0 {
			continue
		}
		heap.Push(h, e)
	}
	return h
}

// RecordPractice updates a LEGO's progress after a completed practice and
// recomputes its priority.
func (q *Queue) RecordPractice(legoID string, wasSuccessful, wasSpike bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	e, ok := q.entries[legoID]
	if !ok {
		return
	}
	now := q.clock.Now()
	e.Progress.LastPracticedAt = &now

	switch {
	case wasSpike:
		if e.Progress.FibonacciPosition > 0 {
			e.Progress.FibonacciPosition--
		}
	case wasSuccessful:
		e.Progress.RepsCompleted++
		if e.Progress.RepsCompleted >= q.initial {
			e.Progress.FibonacciPosition = minInt(e.Progress.FibonacciPosition+1, len(q.fibonacci)-1)
		}
		if len(q.fibonacci) > 0 && e.Progress.FibonacciPosition == len(q.fibonacci)-1 {
			e.Progress.IsRetired = true
		}
	}

	e.Progress.SkipNumber = q.skipFor(e.Progress.FibonacciPosition)
	e.Priority = q.priority(e)
}

func (q *Queue) skipFor(position int) int {
	if len(q.fibonacci) == 0 {
		return 0
	}
	if position < 0 {
		position = 0
	}
	if position >= len(q.fibonacci) {
		position = len(q.fibonacci) - 1
	}
	return q.fibonacci[position]
}

// DecrementSkipNumbers decrements every non-retired entry's skip_number by
// one, never below zero.
func (q *Queue) DecrementSkipNumbers() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, e := range q.entries {
		if e.Progress.IsRetired {
			continue
		}
		if e.Progress.SkipNumber > 0 {
			e.Progress.SkipNumber--
		}
	}
}

func (q *Queue) priority(e *QueuedLego) float64 {
	if e.Progress.IsRetired {
		return math.Inf(1)
	}
	p := float64(e.Progress.SkipNumber)
	if e.Progress.RepsCompleted < q.initial {
		p -= 10
	}
	p += float64(e.Progress.FibonacciPosition) * 0.5
	p += q.rnd.Float64() * 0.1
	return p
}

// UpdateProgress replaces a LEGO's progress wholesale, for loading
// persisted state, and recomputes its priority.
func (q *Queue) UpdateProgress(progress model.LegoProgress, lego model.LegoPair) {
	q.mu.Lock()
	defer q.mu.Unlock()
	e := &QueuedLego{Lego: lego, Progress: progress}
	e.Priority = q.priority(e)
	q.entries[progress.LegoID] = e
}

// GetProgress returns a LEGO's progress, if enrolled.
func (q *Queue) GetProgress(legoID string) (model.LegoProgress, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	e, ok := q.entries[legoID]
	if !ok {
		return model.LegoProgress{}, false
	}
	return e.Progress, true
}

// AllProgress returns every enrolled LEGO's progress, for persistence.
func (q *Queue) AllProgress() []model.LegoProgress {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]model.LegoProgress, 0, len(q.entries))
	for _, e := range q.entries {
		out = append(out, e.Progress)
	}
	return out
}

// Contains reports whether a LEGO is enrolled in this queue.
func (q *Queue) Contains(legoID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.entries[legoID]
	return ok
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

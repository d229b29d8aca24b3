// Package metrics implements MetricsTracker (§4.2): a FIFO rolling
// window of response latencies, the current session, and listener
// dispatch.
package metrics

import (
	"math"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/ssi-learning/scheduler/pkg/model"
)

// Tracker maintains a capped FIFO window of ResponseMetric, the current
// SessionMetrics, and a list of event listeners.
type Tracker struct {
	mu sync.Mutex

	clock     quartz.Clock
	windowCap int
	window    []model.ResponseMetric

	session   *model.SessionMetrics
	listeners []Listener

	logger *log.Logger
}

// New creates a Tracker with the given rolling-window capacity. clock
// defaults to quartz.NewReal() when nil; logger is optional.
func New(windowCap int, clock quartz.Clock, logger *log.Logger) *Tracker {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Tracker{
		clock:     clock,
		windowCap: windowCap,
		logger:    logger,
	}
}

// AddListener registers a listener for future events.
func (t *Tracker) AddListener(l Listener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, l)
}

func (t *Tracker) emit(event Event) {
	for _, l := range t.listeners {
		t.dispatchSafely(l, event)
	}
}

// dispatchSafely isolates a single listener's panic so it cannot corrupt
// tracker state or interrupt the caller (§5, §7).
func (t *Tracker) dispatchSafely(l Listener, event Event) {
	defer func() {
		if r := recover(); r != nil {
			if t.logger != nil {
				t.logger.Error("metrics listener panicked", "event", event.Type, "recovered", r)
			}
		}
	}()
	l(event)
}

// StartSession ends any current session, installs a fresh empty one, and
// clears the rolling window.
func (t *Tracker) StartSession(id string) {
	t.mu.Lock()
	if t.session != nil {
		t.endSessionLocked()
	}
	if id == "" {
		id = uuid.NewString()
	}
	t.session = &model.SessionMetrics{
		ID:        id,
		StartedAt: t.clock.Now(),
	}
	t.window = nil
	session := t.session
	t.mu.Unlock()

	t.emit(Event{Type: EventSessionStarted, Session: session})
}

// EndSession stamps the session's end time and final rolling average,
// emits SessionEnded, and returns the finished session (nil if none was
// active).
func (t *Tracker) EndSession() *model.SessionMetrics {
	t.mu.Lock()
	session := t.endSessionLocked()
	t.mu.Unlock()

	if session != nil {
		t.emit(Event{Type: EventSessionEnded, Session: session})
	}
	return session
}

func (t *Tracker) endSessionLocked() *model.SessionMetrics {
	if t.session == nil {
		return nil
	}
	ended := t.clock.Now()
	t.session.EndedAt = &ended
	t.session.FinalRollingAverage = t.rollingAverageLocked()
	finished := t.session
	t.session = nil
	return finished
}

// RecordResponse constructs a ResponseMetric, appends it to the rolling
// window (evicting the oldest entry past capacity) and to the active
// session, emits ItemCompleted, and returns the metric.
func (t *Tracker) RecordResponse(legoID string, latencyMs, phraseLength, threadID int, mode model.ItemMode, timing *model.SpeechTiming) model.ResponseMetric {
	t.mu.Lock()

	divisor := phraseLength
	if divisor < 5 {
		divisor = 5
	}
	metric := model.ResponseMetric{
		LegoID:            legoID,
		Timestamp:         t.clock.Now(),
		ResponseLatencyMs: latencyMs,
		PhraseLength:      phraseLength,
		NormalizedLatency: float64(latencyMs) / float64(divisor),
		ThreadID:          threadID,
		Mode:              mode,
	}
	if timing != nil {
		copied := *timing
		metric.Timing = &copied
	}

	t.window = append(t.window, metric)
	if t.windowCap > 0 && len(t.window) > t.windowCap {
		t.window = t.window[len(t.window)-t.windowCap:]
	}
	if t.session != nil {
		t.session.Responses = append(t.session.Responses, metric)
	}

	session := t.session
	t.mu.Unlock()

	t.emit(Event{Type: EventItemCompleted, Metric: &metric, Session: session})
	return metric
}

// RecordSpike marks the most recently recorded metric as having
// triggered a spike, appends the event to the session, and emits
// SpikeDetected.
func (t *Tracker) RecordSpike(event model.SpikeEvent) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	t.mu.Lock()
	if len(t.window) > 0 {
		t.window[len(t.window)-1].TriggeredSpike = true
	}
	if t.session != nil {
		if n := len(t.session.Responses); n > 0 {
			t.session.Responses[n-1].TriggeredSpike = true
		}
		t.session.Spikes = append(t.session.Spikes, event)
	}
	session := t.session
	t.mu.Unlock()

	t.emit(Event{Type: EventSpikeDetected, Spike: &event, Session: session})
}

// HasEnoughData reports whether the window holds at least half its
// configured capacity.
func (t *Tracker) HasEnoughData() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.window) >= t.windowCap/2
}

// RollingAverage returns the mean normalized latency over the window.
func (t *Tracker) RollingAverage() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rollingAverageLocked()
}

func (t *Tracker) rollingAverageLocked() float64 {
	if len(t.window) == 0 {
		return 0
	}
	sum := 0.0
	for _, m := range t.window {
		sum += m.NormalizedLatency
	}
	return sum / float64(len(t.window))
}

// RollingStdDev returns the population standard deviation of normalized
// latency over the window.
func (t *Tracker) RollingStdDev() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return populationStdDev(t.normalizedLatenciesLocked(), t.rollingAverageLocked())
}

func (t *Tracker) normalizedLatenciesLocked() []float64 {
	values := make([]float64, len(t.window))
	for i, m := range t.window {
		values[i] = m.NormalizedLatency
	}
	return values
}

// RollingAvgLengthDelta returns the mean duration-delta across window
// entries that carry one, preferring the VAD-reported duration_delta_ms
// and falling back to zero contribution when no timing is present.
func (t *Tracker) RollingAvgLengthDelta() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	values := t.lengthDeltasLocked()
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// RollingStdDevLengthDelta returns the population standard deviation of
// the same set RollingAvgLengthDelta averages.
func (t *Tracker) RollingStdDevLengthDelta() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	values := t.lengthDeltasLocked()
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	return populationStdDev(values, mean)
}

func (t *Tracker) lengthDeltasLocked() []float64 {
	var values []float64
	for _, m := range t.window {
		if m.Timing != nil && m.Timing.DurationDeltaMs != nil {
			values = append(values, float64(*m.Timing.DurationDeltaMs))
		}
	}
	return values
}

func populationStdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

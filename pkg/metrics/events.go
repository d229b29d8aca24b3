package metrics

import "github.com/ssi-learning/scheduler/pkg/model"

// EventType names the events MetricsTracker emits to its listeners.
type EventType string

const (
	EventSessionStarted EventType = "session_started"
	EventSessionEnded   EventType = "session_ended"
	EventItemCompleted  EventType = "item_completed"
	EventSpikeDetected  EventType = "spike_detected"
)

// Event is a single notification dispatched synchronously to every
// registered listener. Session is set on every event (nil when no session
// is active); Metric is set only for ItemCompleted and Spike only for
// SpikeDetected.
type Event struct {
	Type    EventType
	Session *model.SessionMetrics
	Metric  *model.ResponseMetric
	Spike   *model.SpikeEvent
}

// Listener receives tracker events. Listeners must be fast and must not
// panic across the call boundary — MetricsTracker recovers and logs any
// panic so one bad listener cannot corrupt engine state (§5, §7).
type Listener func(Event)

package metrics

import (
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssi-learning/scheduler/pkg/model"
)

func TestStartSessionResetsWindow(t *testing.T) {
	mockClock := quartz.NewMock(t)
	tr := New(10, mockClock, nil)

	tr.StartSession("s1")
	tr.RecordResponse("lego-1", 1000, 10, 1, model.ModeReview, nil)
	assert.True(t, tr.HasEnoughData() == false) // one entry, cap 10, need >=5

	tr.StartSession("s2")
	assert.Equal(t, 0, len(tr.window))
}

func TestRecordResponseNormalizesLatency(t *testing.T) {
	mockClock := quartz.NewMock(t)
	tr := New(10, mockClock, nil)
	tr.StartSession("s1")

	m := tr.RecordResponse("lego-1", 1000, 10, 1, model.ModeReview, nil)
	assert.Equal(t, 100.0, m.NormalizedLatency)

	// phrase_length floors at 5
	m2 := tr.RecordResponse("lego-1", 100, 2, 1, model.ModeReview, nil)
	assert.Equal(t, 20.0, m2.NormalizedLatency)
}

func TestWindowEvictsOldestFIFO(t *testing.T) {
	mockClock := quartz.NewMock(t)
	tr := New(3, mockClock, nil)
	tr.StartSession("s1")

	tr.RecordResponse("a", 100, 10, 1, model.ModeReview, nil)
	tr.RecordResponse("b", 200, 10, 1, model.ModeReview, nil)
	tr.RecordResponse("c", 300, 10, 1, model.ModeReview, nil)
	tr.RecordResponse("d", 400, 10, 1, model.ModeReview, nil)

	require.Len(t, tr.window, 3)
	assert.Equal(t, "b", tr.window[0].LegoID)
	assert.Equal(t, "d", tr.window[2].LegoID)
}

func TestHasEnoughData(t *testing.T) {
	mockClock := quartz.NewMock(t)
	tr := New(10, mockClock, nil)
	tr.StartSession("s1")

	for i := 0; i < 4; i++ {
		tr.RecordResponse("a", 100, 10, 1, model.ModeReview, nil)
	}
	assert.False(t, tr.HasEnoughData())

	tr.RecordResponse("a", 100, 10, 1, model.ModeReview, nil)
	assert.True(t, tr.HasEnoughData())
}

func TestRollingAverageAndStdDev(t *testing.T) {
	mockClock := quartz.NewMock(t)
	tr := New(10, mockClock, nil)
	tr.StartSession("s1")

	for i := 0; i < 10; i++ {
		tr.RecordResponse("a", 1000, 10, 1, model.ModeReview, nil)
	}
	assert.InDelta(t, 100.0, tr.RollingAverage(), 1e-9)
	assert.InDelta(t, 0.0, tr.RollingStdDev(), 1e-9)
}

func TestRecordSpikeMarksMostRecentMetric(t *testing.T) {
	mockClock := quartz.NewMock(t)
	tr := New(10, mockClock, nil)
	tr.StartSession("s1")

	tr.RecordResponse("a", 1000, 10, 1, model.ModeReview, nil)
	tr.RecordSpike(model.SpikeEvent{LegoID: "a"})

	assert.True(t, tr.window[0].TriggeredSpike)
}

func TestEndSessionStampsFinalAverage(t *testing.T) {
	mockClock := quartz.NewMock(t)
	tr := New(10, mockClock, nil)
	tr.StartSession("s1")
	tr.RecordResponse("a", 500, 10, 1, model.ModeReview, nil)

	session := tr.EndSession()
	require.NotNil(t, session)
	assert.NotNil(t, session.EndedAt)
	assert.InDelta(t, 50.0, session.FinalRollingAverage, 1e-9)
}

func TestListenerPanicIsIsolated(t *testing.T) {
	mockClock := quartz.NewMock(t)
	tr := New(10, mockClock, nil)

	called := false
	tr.AddListener(func(e Event) {
		panic("boom")
	})
	tr.AddListener(func(e Event) {
		called = true
	})

	assert.NotPanics(t, func() {
		tr.StartSession("s1")
	})
	assert.True(t, called)
}

func TestListenerReceivesItemCompleted(t *testing.T) {
	mockClock := quartz.NewMock(t)
	tr := New(10, mockClock, nil)
	tr.StartSession("s1")

	var gotType EventType
	tr.AddListener(func(e Event) {
		gotType = e.Type
	})
	tr.RecordResponse("a", 500, 10, 1, model.ModeReview, nil)
	assert.Equal(t, EventItemCompleted, gotType)
}

func TestRollingLengthDeltaIgnoresEntriesWithoutTiming(t *testing.T) {
	mockClock := quartz.NewMock(t)
	tr := New(10, mockClock, nil)
	tr.StartSession("s1")

	tr.RecordResponse("a", 500, 10, 1, model.ModeReview, nil)
	delta := 50
	tr.RecordResponse("a", 500, 10, 1, model.ModeReview, &model.SpeechTiming{DurationDeltaMs: &delta})

	assert.InDelta(t, 50.0, tr.RollingAvgLengthDelta(), 1e-9)
}

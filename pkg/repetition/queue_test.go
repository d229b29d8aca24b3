package repetition

import (
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssi-learning/scheduler/pkg/model"
	"github.com/ssi-learning/scheduler/pkg/randsrc"
)

func newQueue(t *testing.T) *Queue {
	clock := quartz.NewMock(t)
	return New([]int{1, 1, 2, 3, 5, 8, 13, 21, 34, 55, 89}, 7, clock, randsrc.New(7))
}

func lego(id string) model.LegoPair {
	return model.LegoPair{ID: id, Kind: model.LegoKindAtomic}
}

func TestAddNewStartsAtFreshProgress(t *testing.T) {
	q := newQueue(t)
	q.AddNew(lego("a"), 1, "course-1")

	p, ok := q.GetProgress("a")
	require.True(t, ok)
	assert.Equal(t, 0, p.FibonacciPosition)
	assert.Equal(t, 0, p.SkipNumber)
	assert.Equal(t, 0, p.RepsCompleted)
	assert.False(t, p.IsRetired)
}

func TestGetNextReturnsLowestPriorityReadyEntry(t *testing.T) {
	q := newQueue(t)
	q.AddNew(lego("a"), 1, "course-1")
	q.AddNew(lego("b"), 1, "course-1")

	next := q.GetNext()
	require.NotNil(t, next)
	assert.Contains(t, []string{"a", "b"}, next.Lego.ID)
}

func TestGetNextSkipsNonReadyEntries(t *testing.T) {
	q := newQueue(t)
	q.AddNew(lego("a"), 1, "course-1")
	q.RecordPractice("a", true, false) // success but reps < initial -> skip_number = F[0] = 1

	next := q.GetNext()
	assert.Nil(t, next)
}

func TestGetReadySortedAscendingByPriority(t *testing.T) {
	q := newQueue(t)
	q.AddNew(lego("a"), 1, "course-1")
	q.AddNew(lego("b"), 1, "course-1")
	q.AddNew(lego("c"), 1, "course-1")

	ready := q.GetReady()
	require.Len(t, ready, 3)
	for i := 1; i < len(ready); i++ {
		assert.LessOrEqual(t, ready[i-1].Priority, ready[i].Priority)
	}
}

func TestRecordPracticeSpikeDecrementsPosition(t *testing.T) {
	q := newQueue(t)
	q.AddNew(lego("a"), 1, "course-1")
	for i := 0; i < 7; i++ {
		q.RecordPractice("a", true, false)
	}
	p, _ := q.GetProgress("a")
	require.Greater(t, p.FibonacciPosition, 0)
	before := p.FibonacciPosition

	q.RecordPractice("a", false, true)
	p, _ = q.GetProgress("a")
	assert.Equal(t, before-1, p.FibonacciPosition)
}

func TestRecordPracticeRetiresAtLastFibonacciPosition(t *testing.T) {
	q := New([]int{1, 2}, 1, quartz.NewMock(t), randsrc.New(1))
	q.AddNew(lego("a"), 1, "course-1")

	q.RecordPractice("a", true, false) // reps=1 >= initial(1): position -> 1 (last index)
	p, _ := q.GetProgress("a")
	assert.Equal(t, 1, p.FibonacciPosition)
	assert.True(t, p.IsRetired)

	assert.Nil(t, q.GetNext())
}

func TestDecrementSkipNumbersNeverBelowZero(t *testing.T) {
	q := newQueue(t)
	q.AddNew(lego("a"), 1, "course-1")
	q.RecordPractice("a", true, false)

	p, _ := q.GetProgress("a")
	require.Equal(t, 1, p.SkipNumber)

	q.DecrementSkipNumbers()
	p, _ = q.GetProgress("a")
	assert.Equal(t, 0, p.SkipNumber)

	q.DecrementSkipNumbers()
	p, _ = q.GetProgress("a")
	assert.Equal(t, 0, p.SkipNumber)
}

func TestRetiredEntryNeverReady(t *testing.T) {
	q := New([]int{1}, 1, quartz.NewMock(t), randsrc.New(1))
	q.AddNew(lego("a"), 1, "course-1")
	q.RecordPractice("a", true, false)

	p, _ := q.GetProgress("a")
	assert.True(t, p.IsRetired)
	assert.Nil(t, q.GetNext())
	assert.Empty(t, q.GetReady())
}

func TestUpdateProgressAndAllProgress(t *testing.T) {
	q := newQueue(t)
	q.UpdateProgress(model.LegoProgress{LegoID: "a", RepsCompleted: 3}, lego("a"))
	all := q.AllProgress()
	require.Len(t, all, 1)
	assert.Equal(t, 3, all[0].RepsCompleted)
}

func TestContains(t *testing.T) {
	q := newQueue(t)
	assert.False(t, q.Contains("a"))
	q.AddNew(lego("a"), 1, "course-1")
	assert.True(t, q.Contains("a"))
}

package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKindWeight(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.2, kindWeight(KindDeepen))
	assert.Equal(t, 1.0, kindWeight(KindNextStep))
	assert.Equal(t, 1.0, kindWeight(Kind("unknown")))
}

func TestDefaultPriority(t *testing.T) {
	t.Parallel()

	now := time.Now()

	t.Run("fresh tasks rank by kind", func(t *testing.T) {
		t.Parallel()
		deepen := defaultPriority(KindDeepen, now, now)
		next := defaultPriority(KindNextStep, now, now)
		assert.Equal(t, 1.2, deepen)
		assert.Equal(t, 1.0, next)
	})

	t.Run("priority grows with age", func(t *testing.T) {
		t.Parallel()
		young := defaultPriority(KindNextStep, now, now)
		old := defaultPriority(KindNextStep, now.Add(-10*time.Minute), now)
		assert.Greater(t, old, young)
		assert.InDelta(t, 11.0, old, 0.01)
	})
}

func TestStatusTerminal(t *testing.T) {
	t.Parallel()

	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusProcessing.Terminal())
	assert.False(t, StatusPaused.Terminal())
}

func TestRecordBeats(t *testing.T) {
	t.Parallel()

	now := time.Now()

	t.Run("higher priority wins", func(t *testing.T) {
		t.Parallel()
		high := &record{Task: Task{Priority: 10, CreatedAt: now}}
		low := &record{Task: Task{Priority: 1, CreatedAt: now.Add(-time.Hour)}}
		assert.True(t, high.beats(low))
		assert.False(t, low.beats(high))
	})

	t.Run("ties broken by earlier creation", func(t *testing.T) {
		t.Parallel()
		older := &record{Task: Task{Priority: 5, CreatedAt: now.Add(-time.Minute)}}
		newer := &record{Task: Task{Priority: 5, CreatedAt: now}}
		assert.True(t, older.beats(newer))
		assert.False(t, newer.beats(older))
	})

	t.Run("identical timestamps fall back to sequence", func(t *testing.T) {
		t.Parallel()
		first := &record{Task: Task{Priority: 5, CreatedAt: now}, seq: 1}
		second := &record{Task: Task{Priority: 5, CreatedAt: now}, seq: 2}
		assert.True(t, first.beats(second))
		assert.False(t, second.beats(first))
	})
}

func TestSnapshotCopiesTimestamps(t *testing.T) {
	t.Parallel()

	now := time.Now()
	rec := &record{Task: Task{Status: StatusProcessing, StartedAt: &now}}

	snap := rec.snapshot()
	*snap.StartedAt = now.Add(time.Hour)

	assert.True(t, rec.StartedAt.Equal(now))
}

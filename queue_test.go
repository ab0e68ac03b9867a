package resolvelog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueOfferAndPollFIFO(t *testing.T) {
	t.Parallel()

	q := newEventQueue(3)
	for _, path := range []string{"a.kts", "b.kts", "c.kts"} {
		ok := q.offer(timestampedEvent{when: time.Now(), event: ResolutionFailed{ScriptPath: path}}, 10*time.Millisecond)
		require.True(t, ok)
	}
	assert.Equal(t, 3, q.depth())

	for _, path := range []string{"a.kts", "b.kts", "c.kts"} {
		rec, ok := q.poll(10 * time.Millisecond)
		require.True(t, ok)
		assert.Equal(t, path, rec.event.(ResolutionFailed).ScriptPath)
	}
}

func TestQueueOfferTimesOutWhenFull(t *testing.T) {
	t.Parallel()

	q := newEventQueue(1)
	require.True(t, q.offer(timestampedEvent{}, 10*time.Millisecond))

	start := time.Now()
	ok := q.offer(timestampedEvent{}, 50*time.Millisecond)
	elapsed := time.Since(start)

	assert.False(t, ok, "offer into a full queue must fail, not block")
	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond, "offer should wait for the timeout before giving up")
	assert.Less(t, elapsed, 2*time.Second, "offer must never block indefinitely")
	assert.Equal(t, 1, q.depth(), "a failed offer must not grow the queue")
}

func TestQueueOfferSucceedsWhenSpaceFrees(t *testing.T) {
	t.Parallel()

	q := newEventQueue(1)
	require.True(t, q.offer(timestampedEvent{event: ResolutionFailed{ScriptPath: "first.kts"}}, 10*time.Millisecond))

	go func() {
		time.Sleep(30 * time.Millisecond)
		q.poll(10 * time.Millisecond)
	}()

	ok := q.offer(timestampedEvent{event: ResolutionFailed{ScriptPath: "second.kts"}}, 500*time.Millisecond)
	assert.True(t, ok, "offer should succeed once the consumer frees a slot within the timeout")
}

func TestQueuePollTimesOutWhenEmpty(t *testing.T) {
	t.Parallel()

	q := newEventQueue(4)

	start := time.Now()
	_, ok := q.poll(50 * time.Millisecond)
	elapsed := time.Since(start)

	assert.False(t, ok, "poll on an empty queue must report no data")
	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
}

func TestQueueImmediatePathsSkipTimers(t *testing.T) {
	t.Parallel()

	q := newEventQueue(2)

	// With space available, offer must not wait even with a zero timeout.
	assert.True(t, q.offer(timestampedEvent{}, 0))

	// With data available, poll must not wait either.
	_, ok := q.poll(0)
	assert.True(t, ok)
}

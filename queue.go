package resolvelog

import "time"

// timestampedEvent pairs an event with its submission timestamp. The
// timestamp is captured when the event is offered, not when it is written,
// so records reflect submission order even when writing lags.
type timestampedEvent struct {
	when  time.Time
	event any
}

// eventQueue is the bounded multi-producer/single-consumer hand-off buffer
// between callers and the consumer loop. It never grows past its capacity.
type eventQueue struct {
	ch chan timestampedEvent
}

func newEventQueue(capacity int) *eventQueue {
	return &eventQueue{ch: make(chan timestampedEvent, capacity)}
}

// offer inserts rec if space is available within timeout and reports whether
// the insert happened. It never blocks past the timeout.
func (q *eventQueue) offer(rec timestampedEvent, timeout time.Duration) bool {
	select {
	case q.ch <- rec:
		return true
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case q.ch <- rec:
		return true
	case <-timer.C:
		return false
	}
}

// poll waits up to timeout for a record. The second result is false when the
// queue stayed empty for the whole timeout.
func (q *eventQueue) poll(timeout time.Duration) (timestampedEvent, bool) {
	select {
	case rec := <-q.ch:
		return rec, true
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case rec := <-q.ch:
		return rec, true
	case <-timer.C:
		return timestampedEvent{}, false
	}
}

func (q *eventQueue) depth() int {
	return len(q.ch)
}

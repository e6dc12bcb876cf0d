package feed

import "sync"

// Subscription is a channel-backed view of a Publisher.
// Values are delivered in publish order; when the buffer is full the oldest
// pending value is dropped so a slow reader never blocks the publisher.
type Subscription[T any] struct {
	values    chan T
	done      chan struct{}
	doneOnce  sync.Once
	onClose   func()
	dropped   int
	droppedMu sync.Mutex
}

func newSubscription[T any](buffer int, onClose func()) *Subscription[T] {
	if buffer < 1 {
		buffer = 16
	}
	return &Subscription[T]{
		values:  make(chan T, buffer),
		done:    make(chan struct{}),
		onClose: onClose,
	}
}

// C returns the channel values are delivered on.
// It is never closed; select on Done to learn when the subscription ends.
func (s *Subscription[T]) C() <-chan T {
	return s.values
}

// Done returns a channel that closes when the subscription ends.
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}

// Dropped reports how many values were discarded because the reader fell behind.
func (s *Subscription[T]) Dropped() int {
	s.droppedMu.Lock()
	defer s.droppedMu.Unlock()
	return s.dropped
}

// send delivers v without blocking.
// Callers serialize sends, so the drop-then-retry below cannot reorder values.
func (s *Subscription[T]) send(v T) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.values <- v:
		return
	default:
	}

	// Buffer full: drop oldest and retry once
	select {
	case <-s.values:
		s.droppedMu.Lock()
		s.dropped++
		s.droppedMu.Unlock()
	default:
	}
	select {
	case s.values <- v:
	default:
	}
}

// Close ends the subscription and detaches it from its publisher.
// Safe to call multiple times.
func (s *Subscription[T]) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
		if s.onClose != nil {
			s.onClose()
		}
	})
}

// closeLocal ends the subscription without calling back into the publisher.
func (s *Subscription[T]) closeLocal() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

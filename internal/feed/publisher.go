// Package feed provides a replay-latest publish/subscribe primitive.
// A Publisher holds the most recent value and hands it to every new
// listener or subscription before any later value, so observers always
// start from a complete state rather than waiting for the next change.
package feed

import "sync"

type listener[T any] struct {
	id int
	fn func(T)
}

// Publisher broadcasts values to callback listeners and channel subscriptions.
// Publish is serialized: every observer sees values in the order they were
// published. Listeners run synchronously inside Publish and must not call
// back into the Publisher. They also run under whatever lock the publishing
// side holds (the snake engine publishes under its own mutex), so a listener
// must not call anything that takes that lock; use a Subscription to react
// from another goroutine.
type Publisher[T any] struct {
	mu        sync.Mutex
	latest    T
	hasLatest bool
	closed    bool
	nextID    int
	listeners []listener[T]
	subs      map[*Subscription[T]]struct{}
}

// NewPublisher creates an empty publisher.
func NewPublisher[T any]() *Publisher[T] {
	return &Publisher[T]{
		subs: make(map[*Subscription[T]]struct{}),
	}
}

// Publish stores v as the latest value and delivers it to every observer.
// Publishing on a closed publisher is a no-op.
func (p *Publisher[T]) Publish(v T) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.latest = v
	p.hasLatest = true

	for _, l := range p.listeners {
		l.fn(v)
	}
	for s := range p.subs {
		s.send(v)
	}
}

// Latest returns the most recently published value.
func (p *Publisher[T]) Latest() (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest, p.hasLatest
}

// Listen registers fn for every future value. If a value was already
// published, fn receives it before Listen returns. The returned function
// removes the listener.
func (p *Publisher[T]) Listen(fn func(T)) (cancel func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return func() {}
	}

	p.nextID++
	id := p.nextID
	p.listeners = append(p.listeners, listener[T]{id: id, fn: fn})
	if p.hasLatest {
		fn(p.latest)
	}

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		for i, l := range p.listeners {
			if l.id == id {
				p.listeners = append(p.listeners[:i], p.listeners[i+1:]...)
				return
			}
		}
	}
}

// Subscribe returns a buffered subscription primed with the latest value.
// buffer < 1 selects a default size.
func (p *Publisher[T]) Subscribe(buffer int) *Subscription[T] {
	p.mu.Lock()
	defer p.mu.Unlock()

	var s *Subscription[T]
	s = newSubscription[T](buffer, func() { p.unsubscribe(s) })
	if p.closed {
		s.closeLocal()
		return s
	}

	p.subs[s] = struct{}{}
	if p.hasLatest {
		s.send(p.latest)
	}
	return s
}

// Subscribers returns the number of open channel subscriptions.
func (p *Publisher[T]) Subscribers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}

func (p *Publisher[T]) unsubscribe(s *Subscription[T]) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.subs, s)
}

// Close ends every subscription and drops all listeners.
// Safe to call multiple times.
func (p *Publisher[T]) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.listeners = nil
	subs := make([]*Subscription[T], 0, len(p.subs))
	for s := range p.subs {
		subs = append(subs, s)
	}
	p.subs = make(map[*Subscription[T]]struct{})
	p.mu.Unlock()

	for _, s := range subs {
		s.closeLocal()
	}
}

// Package store provides minimal reactive value containers following
// the same contract as the engine's subscription API: a subscriber is
// called immediately on subscribe, then on every subsequent change.
// The engine does not use these internally, but exposes an equivalent
// contract, so they double as the reference implementation of the
// pattern for framework bindings and tests.
package store

// Unsubscribe removes a previously registered subscriber.
type Unsubscribe func()

// Subscriber receives the current value on subscribe and every change.
type Subscriber[T any] func(value T)

// Store is a reactive value container.
// Not safe for concurrent use; the engine model is single-writer.
type Store[T any] struct {
	value       T
	subscribers []*subscriber[T]
}

type subscriber[T any] struct {
	fn      Subscriber[T]
	removed bool
}

// New creates a Store holding initial.
func New[T any](initial T) *Store[T] {
	return &Store[T]{value: initial}
}

// Value returns the current value (non-reactive read).
func (s *Store[T]) Value() T {
	return s.value
}

// Set replaces the stored value and notifies all subscribers.
func (s *Store[T]) Set(newValue T) {
	s.value = newValue
	s.notify()
}

// Update transforms the stored value and notifies subscribers.
func (s *Store[T]) Update(fn func(current T) T) {
	s.Set(fn(s.value))
}

// Subscribe registers fn, immediately calls it with the current value,
// and returns an unsubscribe function. Unsubscribing one subscriber
// does not affect others.
func (s *Store[T]) Subscribe(fn Subscriber[T]) Unsubscribe {
	sub := &subscriber[T]{fn: fn}
	s.subscribers = append(s.subscribers, sub)
	fn(s.value)
	return func() {
		sub.removed = true
		s.compact()
	}
}

// SubscriberCount returns the number of active subscribers.
func (s *Store[T]) SubscriberCount() int {
	return len(s.subscribers)
}

func (s *Store[T]) notify() {
	for _, sub := range s.subscribers {
		if !sub.removed {
			sub.fn(s.value)
		}
	}
}

func (s *Store[T]) compact() {
	kept := s.subscribers[:0]
	for _, sub := range s.subscribers {
		if !sub.removed {
			kept = append(kept, sub)
		}
	}
	s.subscribers = kept
}

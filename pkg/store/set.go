package store

// ObservableSet is a reactive set that notifies subscribers on add,
// delete and clear. No-op mutations (duplicate add, absent delete,
// clearing an empty set) do not notify. Subscribers receive a snapshot
// copy, never the live internal map.
type ObservableSet[T comparable] struct {
	members map[T]struct{}
	// insertion order, so snapshots and iteration are deterministic
	order       []T
	subscribers []*subscriber[map[T]struct{}]
}

// NewObservableSet creates a set seeded with initial members.
func NewObservableSet[T comparable](initial ...T) *ObservableSet[T] {
	s := &ObservableSet[T]{members: make(map[T]struct{})}
	for _, v := range initial {
		if _, ok := s.members[v]; !ok {
			s.members[v] = struct{}{}
			s.order = append(s.order, v)
		}
	}
	return s
}

// Size returns the number of members.
func (s *ObservableSet[T]) Size() int {
	return len(s.members)
}

// Has reports membership.
func (s *ObservableSet[T]) Has(value T) bool {
	_, ok := s.members[value]
	return ok
}

// Add inserts value. Adding an existing member is a no-op and does not
// notify.
func (s *ObservableSet[T]) Add(value T) {
	if _, ok := s.members[value]; ok {
		return
	}
	s.members[value] = struct{}{}
	s.order = append(s.order, value)
	s.notify()
}

// Delete removes value, reporting whether it was present. Only an
// actual removal notifies.
func (s *ObservableSet[T]) Delete(value T) bool {
	if _, ok := s.members[value]; !ok {
		return false
	}
	delete(s.members, value)
	for i, v := range s.order {
		if v == value {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.notify()
	return true
}

// Clear removes all members. Clearing an empty set does not notify.
func (s *ObservableSet[T]) Clear() {
	if len(s.members) == 0 {
		return
	}
	s.members = make(map[T]struct{})
	s.order = nil
	s.notify()
}

// Values returns the members in insertion order.
func (s *ObservableSet[T]) Values() []T {
	out := make([]T, len(s.order))
	copy(out, s.order)
	return out
}

// Snapshot returns a copy of the current membership.
func (s *ObservableSet[T]) Snapshot() map[T]struct{} {
	snap := make(map[T]struct{}, len(s.members))
	for v := range s.members {
		snap[v] = struct{}{}
	}
	return snap
}

// Subscribe registers fn, immediately calls it with a snapshot, and
// returns an unsubscribe function.
func (s *ObservableSet[T]) Subscribe(fn Subscriber[map[T]struct{}]) Unsubscribe {
	sub := &subscriber[map[T]struct{}]{fn: fn}
	s.subscribers = append(s.subscribers, sub)
	fn(s.Snapshot())
	return func() {
		sub.removed = true
	}
}

func (s *ObservableSet[T]) notify() {
	snap := s.Snapshot()
	for _, sub := range s.subscribers {
		if !sub.removed {
			sub.fn(snap)
		}
	}
}

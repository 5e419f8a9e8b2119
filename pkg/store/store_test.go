package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traek/traek-go/pkg/store"
)

func TestStoreInitialValue(t *testing.T) {
	s := store.New(42)
	assert.Equal(t, 42, s.Value())
}

func TestStoreSubscribeReceivesCurrentValueImmediately(t *testing.T) {
	s := store.New("initial")
	var got []string
	s.Subscribe(func(v string) { got = append(got, v) })
	assert.Equal(t, []string{"initial"}, got)
}

func TestStoreNotifiesOnSet(t *testing.T) {
	s := store.New(0)
	var got []int
	s.Subscribe(func(v int) { got = append(got, v) })

	s.Set(1)
	s.Set(2)
	assert.Equal(t, []int{0, 1, 2}, got)
	assert.Equal(t, 2, s.Value())
}

func TestStoreUpdate(t *testing.T) {
	s := store.New(10)
	var got []int
	s.Subscribe(func(v int) { got = append(got, v) })

	s.Update(func(current int) int { return current * 2 })
	assert.Equal(t, 20, s.Value())
	assert.Equal(t, []int{10, 20}, got)
}

func TestStoreUnsubscribe(t *testing.T) {
	s := store.New(0)
	var a, b []int
	unsubA := s.Subscribe(func(v int) { a = append(a, v) })
	s.Subscribe(func(v int) { b = append(b, v) })
	require.Equal(t, 2, s.SubscriberCount())

	unsubA()
	s.Set(1)

	assert.Equal(t, []int{0}, a, "no delivery after unsubscribe")
	assert.Equal(t, []int{0, 1}, b, "other subscribers unaffected")
	assert.Equal(t, 1, s.SubscriberCount())
}

func TestObservableSetStartsEmpty(t *testing.T) {
	s := store.NewObservableSet[string]()
	assert.Zero(t, s.Size())
	assert.False(t, s.Has("x"))
	assert.Empty(t, s.Values())
}

func TestObservableSetAdd(t *testing.T) {
	s := store.NewObservableSet[string]()
	notifications := 0
	s.Subscribe(func(map[string]struct{}) { notifications++ })
	require.Equal(t, 1, notifications, "immediate call on subscribe")

	s.Add("a")
	s.Add("b")
	assert.Equal(t, 3, notifications)
	assert.Equal(t, []string{"a", "b"}, s.Values())

	s.Add("a")
	assert.Equal(t, 3, notifications, "duplicate add is silent")
	assert.Equal(t, 2, s.Size())
}

func TestObservableSetDelete(t *testing.T) {
	s := store.NewObservableSet("a", "b", "c")
	notifications := 0
	s.Subscribe(func(map[string]struct{}) { notifications++ })

	assert.True(t, s.Delete("b"))
	assert.Equal(t, 2, notifications)
	assert.Equal(t, []string{"a", "c"}, s.Values())

	assert.False(t, s.Delete("b"))
	assert.Equal(t, 2, notifications, "absent delete is silent")
}

func TestObservableSetClear(t *testing.T) {
	s := store.NewObservableSet("a", "b")
	notifications := 0
	s.Subscribe(func(map[string]struct{}) { notifications++ })

	s.Clear()
	assert.Equal(t, 2, notifications)
	assert.Zero(t, s.Size())

	s.Clear()
	assert.Equal(t, 2, notifications, "clearing an empty set is silent")
}

func TestObservableSetSnapshotIsACopy(t *testing.T) {
	s := store.NewObservableSet("a")
	var seen map[string]struct{}
	s.Subscribe(func(snap map[string]struct{}) { seen = snap })

	seen["tampered"] = struct{}{}
	assert.False(t, s.Has("tampered"), "subscribers get a snapshot, not the live map")
}

func TestObservableSetDedupesInitialMembers(t *testing.T) {
	s := store.NewObservableSet("a", "a", "b")
	assert.Equal(t, 2, s.Size())
	assert.Equal(t, []string{"a", "b"}, s.Values())
}

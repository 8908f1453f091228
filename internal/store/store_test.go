package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type add int

func (add) Type() string { return "counter/add" }

type counter struct {
	Total int
	Seen  []string
}

func reduce(prev counter, action Action) counter {
	next := prev
	next.Seen = append(append([]string(nil), prev.Seen...), action.Type())
	if a, ok := action.(add); ok {
		next.Total += int(a)
	}
	return next
}

func TestStore_DispatchAppliesReducer(t *testing.T) {
	s := New("counter", reduce, counter{})
	assert.Equal(t, "counter", s.Name())

	require.NoError(t, s.Dispatch(add(2)))
	require.NoError(t, s.Dispatch(add(3)))

	assert.Equal(t, 5, s.State().Total)
	assert.Equal(t, []string{"counter/add", "counter/add"}, s.State().Seen)
}

func TestStore_SubscribersNotifiedInOrder(t *testing.T) {
	s := New("counter", reduce, counter{})

	var got []string
	s.Subscribe(func(c counter) { got = append(got, "a") })
	s.Subscribe(func(c counter) { got = append(got, "b") })

	require.NoError(t, s.Dispatch(add(1)))
	assert.Equal(t, []string{"a", "b"}, got)

	require.NoError(t, s.Dispatch(add(1)))
	assert.Equal(t, []string{"a", "b", "a", "b"}, got)
}

func TestStore_ListenerSeesNewState(t *testing.T) {
	s := New("counter", reduce, counter{})

	var seen int
	s.Subscribe(func(c counter) { seen = c.Total })

	require.NoError(t, s.Dispatch(add(7)))
	assert.Equal(t, 7, seen)
}

func TestStore_Unsubscribe(t *testing.T) {
	s := New("counter", reduce, counter{})

	calls := 0
	unsubscribe := s.Subscribe(func(counter) { calls++ })

	require.NoError(t, s.Dispatch(add(1)))
	unsubscribe()
	unsubscribe()
	require.NoError(t, s.Dispatch(add(1)))

	assert.Equal(t, 1, calls)
}

func TestStore_Close(t *testing.T) {
	s := New("counter", reduce, counter{})

	calls := 0
	s.Subscribe(func(counter) { calls++ })

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Dispatch(add(1)), ErrClosed)
	assert.ErrorIs(t, s.Close(), ErrClosed)
	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, s.State().Total, "state survives close for final reads")

	// Subscribing after close is a no-op.
	s.Subscribe(func(counter) { calls++ })()
}

func TestStore_ConcurrentDispatchSerialized(t *testing.T) {
	s := New("counter", reduce, counter{})

	var mu sync.Mutex
	notifications := 0
	s.Subscribe(func(counter) {
		mu.Lock()
		notifications++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Dispatch(add(1)))
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, s.State().Total)
	assert.Len(t, s.State().Seen, 50)
	assert.Equal(t, 50, notifications)
}

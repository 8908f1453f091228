// Package store provides an explicitly constructed state container: a single
// named state region, a reducer applying actions to it, and synchronous
// subscriber notification after every transition.
package store

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// ErrClosed is returned by Dispatch and Close once the store is torn down.
var ErrClosed = errors.New("store: closed")

// Action is anything a reducer understands. Type names follow "region/op/phase".
type Action interface {
	Type() string
}

// Reducer computes the next state. It must not mutate prev in place.
type Reducer[S any] func(prev S, action Action) S

// Listener is notified with the new state after each transition.
type Listener[S any] func(state S)

type Option func(*options)

type options struct {
	log zerolog.Logger
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

type subscription[S any] struct {
	id int
	fn Listener[S]
}

// Store holds one named state region. All transitions are serialized.
type Store[S any] struct {
	name    string
	reducer Reducer[S]
	log     zerolog.Logger

	// dispatchMu serializes reduce + notify so listeners observe transitions
	// in order.
	dispatchMu sync.Mutex

	mu        sync.RWMutex
	state     S
	listeners []subscription[S]
	nextID    int
	closed    bool
}

// New creates a store for region name starting at initial.
func New[S any](name string, reducer Reducer[S], initial S, opts ...Option) *Store[S] {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store[S]{
		name:    name,
		reducer: reducer,
		state:   initial,
		log:     o.log.With().Str("store", name).Logger(),
	}
	s.log.Debug().Msg("Store initialized")
	return s
}

func (s *Store[S]) Name() string {
	return s.name
}

// State returns the current snapshot.
func (s *Store[S]) State() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies action and notifies listeners before returning.
// Listeners must not call Dispatch synchronously.
func (s *Store[S]) Dispatch(action Action) error {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.state = s.reducer(s.state, action)
	next := s.state
	listeners := make([]subscription[S], len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	s.log.Debug().Str("action", action.Type()).Msg("Dispatched")

	for _, l := range listeners {
		l.fn(next)
	}
	return nil
}

// Subscribe registers fn and returns a function removing it. Unsubscribing
// more than once is harmless.
func (s *Store[S]) Subscribe(fn Listener[S]) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return func() {}
	}

	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, subscription[S]{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Close tears the store down and drops all listeners. Waits for an
// in-progress dispatch to finish.
func (s *Store[S]) Close() error {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	s.listeners = nil
	s.log.Debug().Msg("Store closed")
	return nil
}

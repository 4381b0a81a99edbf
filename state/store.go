package state

import (
	"sync"
)

type (
	// Store keeps the State and serializes all its transitions.
	Store struct {
		sync.Mutex
		state    State
		watchers map[int]chan State
		nextId   int
	}

	// UpdateFunc builds an Action from the current State (used for read-modify-dispatch sequences).
	UpdateFunc func(s State) (Action, error)
)

// State returns the current State snapshot.
func (s *Store) State() State {
	s.Lock()
	defer s.Unlock()

	return s.state.Copy()
}

// Dispatch applies the Action and notifies watchers.
func (s *Store) Dispatch(a Action) State {
	s.Lock()
	defer s.Unlock()

	return s.dispatch(a)
}

// Update builds an Action from the current State and applies it atomically.
// Nothing is dispatched on error.
func (s *Store) Update(fn UpdateFunc) (State, error) {
	s.Lock()
	defer s.Unlock()

	a, err := fn(s.state.Copy())
	if err != nil {
		return s.state.Copy(), err
	}

	return s.dispatch(a), nil
}

// Watch returns a channel receiving the latest State after every transition.
// Slow receivers only get the most recent State.
// The cancel func must be called to release the channel.
func (s *Store) Watch() (<-chan State, func()) {
	s.Lock()
	defer s.Unlock()

	id := s.nextId
	s.nextId++

	ch := make(chan State, 1)
	ch <- s.state.Copy()
	s.watchers[id] = ch

	cancel := func() {
		s.Lock()
		defer s.Unlock()

		if ch, found := s.watchers[id]; found {
			delete(s.watchers, id)
			close(ch)
		}
	}

	return ch, cancel
}

// dispatch does the actual job (lock must be held).
func (s *Store) dispatch(a Action) State {
	s.state = Reduce(s.state, a)

	for _, ch := range s.watchers {
		// Drop the outdated state (if not yet received)
		select {
		case <-ch:
		default:
		}
		ch <- s.state.Copy()
	}

	return s.state.Copy()
}

// NewStore creates a new Store object with the initial state.
func NewStore(initial State) *Store {
	return &Store{
		state:    initial.Copy(),
		watchers: make(map[int]chan State),
	}
}

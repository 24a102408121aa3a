package goSession

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Store holds the session state shared by every consumer of one console
// process.
//
// Reads return the current values under a read lock; consumers call
// [Store.State] again instead of caching the result. Initialized moves from
// false to true once and nothing sets it back.
//
// The store also owns the pending profile probe, so engines sharing one
// store share one probe.
type Store struct {
	mu    sync.RWMutex
	state State

	flight singleflight.Group

	// notifyMu serializes mutate-then-notify so listeners see states in
	// mutation order.
	notifyMu sync.Mutex

	listenersMu sync.Mutex
	listeners   map[uint64]func(State)
	nextID      uint64
}

// NewStore returns an uninitialized, anonymous store.
func NewStore() *Store {
	return &Store{
		listeners: make(map[uint64]func(State)),
	}
}

// State returns the current session state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Identity returns the current identity or nil.
func (s *Store) Identity() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Identity
}

// Initialized reports whether the session has been resolved once.
func (s *Store) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Initialized
}

// Loading reports whether a login is in progress.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Loading
}

// Error returns the pending login error message, or "".
func (s *Store) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Error
}

// SetIdentity replaces the identity. nil means anonymous.
func (s *Store) SetIdentity(identity *Identity) {
	s.update(func(st *State) bool {
		st.Identity = identity
		return true
	})
}

// SetLoading sets the loading flag.
func (s *Store) SetLoading(loading bool) {
	s.update(func(st *State) bool {
		st.Loading = loading
		return true
	})
}

// SetError sets the displayable error. "" clears it.
func (s *Store) SetError(message string) {
	s.update(func(st *State) bool {
		st.Error = message
		return true
	})
}

// ClearError removes any pending error.
func (s *Store) ClearError() {
	s.SetError("")
}

// MarkInitialized sets Initialized. It is idempotent.
func (s *Store) MarkInitialized() {
	s.update(func(st *State) bool {
		if st.Initialized {
			return false
		}
		st.Initialized = true
		return true
	})
}

// Subscribe registers fn to receive the new state after every mutation.
// fn runs synchronously on the mutating goroutine and must not block or
// mutate the store. Deliveries follow mutation order.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	if fn == nil {
		return func() {}
	}

	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenersMu.Lock()
			delete(s.listeners, id)
			s.listenersMu.Unlock()
		})
	}
}

const profileFlightKey = "profile"

// joinBootstrap starts probe, or joins the one already in flight on this
// store. The key is forgotten once probe returns.
func (s *Store) joinBootstrap(probe func()) <-chan singleflight.Result {
	return s.flight.DoChan(profileFlightKey, func() (any, error) {
		probe()
		return nil, nil
	})
}

// settleBootstrap applies a profile probe outcome unless an explicit login or
// logout already settled the session. It reports whether the outcome was applied.
func (s *Store) settleBootstrap(identity *Identity) bool {
	applied := false
	s.update(func(st *State) bool {
		if st.Initialized {
			return false
		}
		st.Identity = identity
		st.Initialized = true
		applied = true
		return true
	})
	return applied
}

func (s *Store) beginLogin() {
	s.update(func(st *State) bool {
		st.Loading = true
		st.Error = ""
		return true
	})
}

func (s *Store) completeLogin(identity *Identity) {
	s.update(func(st *State) bool {
		st.Identity = identity
		st.Initialized = true
		return true
	})
}

func (s *Store) failLogin(message string) {
	s.update(func(st *State) bool {
		st.Identity = nil
		st.Error = message
		return true
	})
}

func (s *Store) settleAnonymous() {
	s.update(func(st *State) bool {
		st.Identity = nil
		st.Initialized = true
		return true
	})
}

func (s *Store) update(mutate func(*State) bool) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	changed := mutate(&s.state)
	next := s.state
	s.mu.Unlock()

	if changed {
		s.notify(next)
	}
}

func (s *Store) notify(st State) {
	s.listenersMu.Lock()
	if len(s.listeners) == 0 {
		s.listenersMu.Unlock()
		return
	}
	fns := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenersMu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

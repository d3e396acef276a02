// Package session holds the client-side record of whether a user is logged
// in and who they are. The store mirrors itself into a Storage so a
// restarted process resumes the same session, and it guarantees that
// IsAuthenticated is true exactly when User is non-nil.
package session

import (
	"encoding/json"
	"sync"
)

// Storage keys. They match what the store reads back on hydration.
const (
	keyAuthenticated = "isAuthenticated"
	keyUser          = "user"
)

// Profile identifies an authenticated user on the client.
type Profile struct {
	ID       string   `json:"id"`
	Name     string   `json:"name,omitempty"`
	Email    string   `json:"email,omitempty"`
	Role     string   `json:"role"`
	Token    string   `json:"token,omitempty"`
	Wishlist []string `json:"wishlist"`
}

// State is a point-in-time snapshot of the session.
type State struct {
	IsAuthenticated bool
	User            *Profile
}

// Storage is the durable mirror of the session, keyed by fixed names.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// Store is the single shared session holder. Guards, the api client, and
// the channel listener observe it; they never keep independent copies.
type Store struct {
	mu        sync.Mutex
	state     State
	storage   Storage
	nextSub   int
	listeners map[int]func(State)
}

// NewStore hydrates a Store from storage. A malformed or absent stored
// session yields the logged-out state rather than an error.
func NewStore(storage Storage) *Store {
	s := &Store{
		storage:   storage,
		listeners: make(map[int]func(State)),
	}
	s.hydrate()
	return s
}

func (s *Store) hydrate() {
	if s.storage == nil {
		return
	}
	flag, ok := s.storage.Get(keyAuthenticated)
	if !ok || flag != "true" {
		return
	}
	raw, ok := s.storage.Get(keyUser)
	if !ok {
		return
	}
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil || p.ID == "" {
		return
	}
	s.state = State{IsAuthenticated: true, User: &p}
}

// Snapshot returns the current state. The returned profile is a copy.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state)
}

// Token returns the live bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.User == nil {
		return ""
	}
	return s.state.User.Token
}

// Subscribe registers fn to run synchronously on every mutation. The
// returned function removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// LoginSuccess sets the authenticated state and persists it.
func (s *Store) LoginSuccess(p Profile) {
	s.mu.Lock()
	copied := cloneProfile(p)
	s.state = State{IsAuthenticated: true, User: copied}
	if s.storage != nil {
		s.storage.Set(keyAuthenticated, "true")
		if raw, err := json.Marshal(copied); err == nil {
			s.storage.Set(keyUser, string(raw))
		}
	}
	s.notifyLocked()
}

// LogoutSuccess clears the session and removes the storage keys.
func (s *Store) LogoutSuccess() {
	s.mu.Lock()
	s.state = State{}
	if s.storage != nil {
		s.storage.Delete(keyAuthenticated)
		s.storage.Delete(keyUser)
	}
	s.notifyLocked()
}

// UpdateWishlist replaces the wishlist and re-persists the profile. It is a
// no-op when logged out.
func (s *Store) UpdateWishlist(ids []string) {
	s.mu.Lock()
	if s.state.User == nil {
		s.mu.Unlock()
		return
	}
	s.state.User.Wishlist = append([]string(nil), ids...)
	if s.storage != nil {
		if raw, err := json.Marshal(s.state.User); err == nil {
			s.storage.Set(keyUser, string(raw))
		}
	}
	s.notifyLocked()
}

// notifyLocked releases the lock and invokes subscribers synchronously, so
// every observer sees the new state before the mutation returns.
func (s *Store) notifyLocked() {
	state := cloneState(s.state)
	fns := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(state)
	}
}

func cloneState(st State) State {
	if st.User == nil {
		return State{IsAuthenticated: st.IsAuthenticated}
	}
	return State{IsAuthenticated: st.IsAuthenticated, User: cloneProfile(*st.User)}
}

func cloneProfile(p Profile) *Profile {
	copied := p
	copied.Wishlist = append([]string(nil), p.Wishlist...)
	return &copied
}

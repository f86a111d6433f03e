package authstate

import (
	"encoding/json"
	"sync"

	"sportspace-admin/internal/model"
)

// SessionState is the single source of truth for the current user,
// reconciled against the TokenStore: a session user must never outlive a
// valid token. Observers are notified synchronously on every mutation.
type SessionState struct {
	mu        sync.Mutex
	store     Store
	tokens    *TokenStore
	user      *model.SessionUser
	observers map[int]func(*model.SessionUser)
	nextObs   int
}

func NewSessionState(store Store, tokens *TokenStore) *SessionState {
	return &SessionState{
		store:     store,
		tokens:    tokens,
		observers: map[int]func(*model.SessionUser){},
	}
}

// Initialize loads or derives the session user once at process start.
// With a valid token it prefers the cached user, purging a corrupt cache
// entry and falling back to the token claims. With no valid token it
// clears any stale session.
func (s *SessionState) Initialize() {
	s.Reconcile()
}

// Reconcile re-derives the session from the token store. Call it at
// startup and immediately after any token mutation.
func (s *SessionState) Reconcile() {
	if s.tokens.IsTokenExpired() {
		s.ClearUser()
		return
	}

	if cached := s.loadCachedUser(); cached != nil {
		s.setUserLocked(cached, false)
		return
	}

	claims := s.tokens.DecodeToken()
	if claims == nil {
		s.ClearUser()
		return
	}

	user := &model.SessionUser{
		ID:    claims.Subject,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  claims.Role,
	}
	if user.Name == "" {
		user.Name = claims.Subject
	}
	if user.Role == "" {
		user.Role = model.RoleStudent
	}
	s.setUserLocked(user, true)
}

// SetUser overwrites the session user after a successful login exchange
// and persists it.
func (s *SessionState) SetUser(user model.SessionUser) {
	if user.Role == "" {
		user.Role = model.RoleStudent
	}
	s.setUserLocked(&user, true)
}

// ClearUser wipes the session user from memory and durable storage.
// Idempotent.
func (s *SessionState) ClearUser() {
	s.mu.Lock()
	wasSet := s.user != nil
	s.user = nil
	_ = s.store.Delete(KeyUserData)
	observers := s.snapshotObservers()
	s.mu.Unlock()

	if wasSet {
		for _, observer := range observers {
			observer(nil)
		}
	}
}

// CurrentUser returns a copy of the session user, or nil when no session
// is active.
func (s *SessionState) CurrentUser() *model.SessionUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	copied := *s.user
	return &copied
}

func (s *SessionState) IsAuthenticated() bool {
	return s.CurrentUser() != nil
}

// UserRole returns the current role, or "" when no session is active.
func (s *SessionState) UserRole() model.Role {
	user := s.CurrentUser()
	if user == nil {
		return ""
	}
	return user.Role
}

func (s *SessionState) UserEmail() string {
	user := s.CurrentUser()
	if user == nil {
		return ""
	}
	return user.Email
}

// Subscribe registers an observer called synchronously after every
// session mutation with the new user (nil on clear). The returned
// function unsubscribes.
func (s *SessionState) Subscribe(observer func(*model.SessionUser)) func() {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = observer
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *SessionState) setUserLocked(user *model.SessionUser, persist bool) {
	s.mu.Lock()
	s.user = user
	if persist {
		if data, err := json.Marshal(user); err == nil {
			_ = s.store.Set(KeyUserData, string(data))
		}
	}
	observers := s.snapshotObservers()
	notified := *user
	s.mu.Unlock()

	for _, observer := range observers {
		observer(&notified)
	}
}

// loadCachedUser returns the persisted session user, purging the entry
// when the cached JSON is corrupt.
func (s *SessionState) loadCachedUser() *model.SessionUser {
	raw, err := s.store.Get(KeyUserData)
	if err != nil {
		return nil
	}

	var user model.SessionUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		_ = s.store.Delete(KeyUserData)
		return nil
	}
	if user.ID == "" {
		_ = s.store.Delete(KeyUserData)
		return nil
	}
	return &user
}

func (s *SessionState) snapshotObservers() []func(*model.SessionUser) {
	observers := make([]func(*model.SessionUser), 0, len(s.observers))
	for _, observer := range s.observers {
		observers = append(observers, observer)
	}
	return observers
}

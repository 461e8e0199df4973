package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrSignInInProgress is returned when a session starts a second sign-in
	// before the first one completed, was cancelled or timed out.
	ErrSignInInProgress = errors.New("sign-in already in progress")
	// ErrNoSignIn is reported by Complete when the session has no pending attempt.
	ErrNoSignIn = errors.New("no sign-in in progress")
	// ErrStateMismatch is reported by Complete when the callback state does
	// not match the pending attempt.
	ErrStateMismatch = errors.New("sign-in state mismatch")
	// ErrNoSession is returned by a SessionStore when the session does not
	// exist or has expired.
	ErrNoSession = errors.New("session not found")
)

// Result is the outcome envelope of sign-in and sign-out.
type Result struct {
	Success bool   `json:"success"`
	User    *User  `json:"user,omitempty"`
	Error   string `json:"error,omitempty"`

	// SessionID is the session created by a successful sign-in. It replaces
	// the id the attempt was started under.
	SessionID string `json:"-"`
}

func failed(err error) Result { return Result{Error: err.Error()} }

// SessionStore persists signed-in sessions.
type SessionStore interface {
	Save(ctx context.Context, id string, u User, expiresAt time.Time) error
	Get(ctx context.Context, id string, now time.Time) (*User, error)
	Delete(ctx context.Context, id string) error
}

type attempt struct {
	state   string
	expires time.Time
}

// Manager drives sign-in for browser sessions.
//
// Each browser session may have at most one sign-in attempt in flight. A
// second SignIn for the same session fails fast with ErrSignInInProgress
// until the attempt is completed, cancelled or older than the sign-in
// timeout.
type Manager struct {
	provider      Provider
	store         SessionStore
	sessionTTL    time.Duration
	signInTimeout time.Duration
	now           func() time.Time

	mu      sync.Mutex
	pending map[string]attempt
}

// NewManager wires a provider to a session store.
func NewManager(p Provider, s SessionStore, sessionTTL, signInTimeout time.Duration) *Manager {
	return &Manager{
		provider:      p,
		store:         s,
		sessionTTL:    sessionTTL,
		signInTimeout: signInTimeout,
		now:           time.Now,
		pending:       make(map[string]attempt),
	}
}

// Provider returns the configured identity provider.
func (m *Manager) Provider() Provider { return m.provider }

// SignIn registers a sign-in attempt for sessionID and returns the provider
// URL to redirect to.
func (m *Manager) SignIn(_ context.Context, sessionID string) (string, error) {
	now := m.now()
	state := uuid.NewString()

	m.mu.Lock()
	for id, a := range m.pending {
		if !now.Before(a.expires) {
			delete(m.pending, id)
		}
	}
	if _, busy := m.pending[sessionID]; busy {
		m.mu.Unlock()
		return "", ErrSignInInProgress
	}
	m.pending[sessionID] = attempt{state: state, expires: now.Add(m.signInTimeout)}
	m.mu.Unlock()

	return m.provider.AuthCodeURL(state), nil
}

// take removes and returns the live attempt for sessionID.
func (m *Manager) take(sessionID string) (attempt, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.pending[sessionID]
	delete(m.pending, sessionID)
	if !ok || !m.now().Before(a.expires) {
		return attempt{}, false
	}
	return a, true
}

// Complete finishes the attempt started by SignIn. The attempt is cleared
// whatever the outcome.
func (m *Manager) Complete(ctx context.Context, sessionID, state, code string) Result {
	a, ok := m.take(sessionID)
	if !ok {
		return failed(ErrNoSignIn)
	}
	if state == "" || state != a.state {
		return failed(ErrStateMismatch)
	}

	u, err := m.provider.Exchange(ctx, code)
	if err != nil {
		return failed(err)
	}

	sid := uuid.NewString()
	if err := m.store.Save(ctx, sid, *u, m.now().Add(m.sessionTTL)); err != nil {
		return failed(err)
	}
	return Result{Success: true, User: u, SessionID: sid}
}

// Cancel abandons any attempt in flight for sessionID.
func (m *Manager) Cancel(sessionID string) {
	m.mu.Lock()
	delete(m.pending, sessionID)
	m.mu.Unlock()
}

// SignOut ends the session. Signing out a missing session succeeds.
func (m *Manager) SignOut(ctx context.Context, sessionID string) Result {
	m.Cancel(sessionID)
	if sessionID == "" {
		return Result{Success: true}
	}
	if err := m.store.Delete(ctx, sessionID); err != nil {
		return failed(err)
	}
	return Result{Success: true}
}

// CurrentUser returns the user signed in on sessionID, or nil.
func (m *Manager) CurrentUser(ctx context.Context, sessionID string) *User {
	if sessionID == "" {
		return nil
	}
	u, err := m.store.Get(ctx, sessionID, m.now())
	if err != nil {
		return nil
	}
	return u
}

// Package session owns the authenticated identity: the bearer token
// and the user profile. One Manager exists per process, created at
// startup and injected into everything that makes authenticated calls.
package session

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/yudhapr/pasarloak/internal/api"
	"github.com/yudhapr/pasarloak/internal/model"
	"github.com/yudhapr/pasarloak/internal/store"
)

// Backend is the slice of the REST client the manager depends on,
// split out so tests can stand in a fake without a running server.
type Backend interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) error
	Profile(ctx context.Context) (*model.User, error)
	UpdateUser(ctx context.Context, id int64, fields model.ProfileUpdate) (*model.User, error)
	BecomeSeller(ctx context.Context, id int64) error
}

// AuthError carries the human-readable message shown to the user while
// keeping the underlying cause unwrappable.
type AuthError struct {
	Message string
	cause   error
}

func (e *AuthError) Error() string { return e.Message }
func (e *AuthError) Unwrap() error { return e.cause }

// ErrNotAuthenticated is returned by operations that need a current
// user when there is none.
var ErrNotAuthenticated = errors.New("session: not authenticated")

// Manager holds the session and keeps the local persisted copies in
// sync with server state changes. Reads may run concurrently with a
// mutation; the token handed to an in-flight request is whatever was
// current when that request was sent.
type Manager struct {
	mu       sync.RWMutex
	backend  Backend
	store    store.Store
	provider Provider

	token string
	user  *model.User
}

// NewManager wires the manager to its collaborators. The backend is
// attached separately via Bind because the REST client itself needs
// the manager as its token source.
func NewManager(st store.Store, provider Provider) *Manager {
	if provider == nil {
		provider = NoopProvider{}
	}
	return &Manager{store: st, provider: provider}
}

// Bind attaches the REST backend. Must be called once during startup
// wiring, before any session operation.
func (m *Manager) Bind(backend Backend) { m.backend = backend }

// CurrentToken implements api.TokenSource. Outgoing requests call this
// at send time, never through a captured copy.
func (m *Manager) CurrentToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// CurrentUser returns a copy of the profile, or nil for a token-only
// or unauthenticated session.
func (m *Manager) CurrentUser() *model.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// IsAuthenticated reports whether a bearer token is held. A degraded
// token-only session counts as authenticated for request purposes even
// while the profile is absent.
func (m *Manager) IsAuthenticated() bool { return m.CurrentToken() != "" }

// Restore runs once at startup, before anything reads the session. It
// pulls a persisted access token from the auth provider, prefers the
// locally cached profile, and hydrates from the backend only when no
// cached copy exists. Every failure here is logged and degrades: worst
// case the user simply is not signed in.
func (m *Manager) Restore(ctx context.Context) {
	token, err := m.provider.RestoreToken(ctx)
	if err != nil {
		log.Printf("session: provider restore failed: %v", err)
	}
	if token == "" {
		return
	}

	m.mu.Lock()
	m.token = token
	m.mu.Unlock()

	var cached model.User
	switch err := m.store.GetJSON(ctx, store.KeyUser, &cached); {
	case err == nil:
		m.mu.Lock()
		m.user = &cached
		m.mu.Unlock()
	case errors.Is(err, store.ErrNotFound):
		profile, err := m.backend.Profile(ctx)
		if err != nil {
			// Token-only session: authenticated, profile absent.
			log.Printf("session: profile hydration failed: %v", err)
		} else {
			m.mu.Lock()
			m.user = profile
			m.mu.Unlock()
			if err := m.store.SetJSON(ctx, store.KeyUser, profile); err != nil {
				log.Printf("session: persist profile failed: %v", err)
			}
		}
	default:
		log.Printf("session: cached profile unreadable: %v", err)
	}

	if err := m.store.SetString(ctx, store.KeyToken, token); err != nil {
		log.Printf("session: persist token failed: %v", err)
	}
}

// Login exchanges credentials for a session, overwriting any prior
// one. Failures surface the backend's message when it sent one and
// "Login gagal" otherwise. No retry.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	res, err := m.backend.Login(ctx, email, password)
	if err != nil {
		return &AuthError{Message: api.Message(err, "Login gagal"), cause: err}
	}
	if res.Token == "" {
		return &AuthError{Message: "Token tidak tersedia"}
	}
	m.setSession(ctx, res.Token, &res.User)
	return nil
}

// Register creates the account and immediately logs in with the same
// credentials, since registration alone yields no token.
func (m *Manager) Register(ctx context.Context, name, email, password string, phone *string) error {
	req := api.RegisterRequest{Name: name, Email: email, Password: password, Phone: phone}
	if err := m.backend.Register(ctx, req); err != nil {
		return &AuthError{Message: api.Message(err, "Registrasi gagal"), cause: err}
	}
	return m.Login(ctx, email, password)
}

// Logout invalidates the provider session best-effort, then clears the
// in-memory session and the persisted copies. The redirect flag is
// handed back unchanged once cleanup has finished, so a caller that
// wants to navigate to the login entry point does it only after the
// session is fully cleared.
func (m *Manager) Logout(ctx context.Context, redirect bool) bool {
	token := m.CurrentToken()
	if err := m.provider.SignOut(ctx, token); err != nil {
		log.Printf("session: remote sign-out failed: %v", err)
	}

	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.mu.Unlock()

	for _, key := range []string{store.KeyToken, store.KeyUser} {
		if err := m.store.Delete(ctx, key); err != nil {
			log.Printf("session: clear %s failed: %v", key, err)
		}
	}
	return redirect
}

// BecomeSeller upgrades the current user to the seller role. No-op
// without a current user. The flip is one-way: nothing in this client
// ever sets is_seller back to false.
func (m *Manager) BecomeSeller(ctx context.Context) error {
	user := m.CurrentUser()
	if user == nil {
		return nil
	}
	if err := m.backend.BecomeSeller(ctx, user.ID); err != nil {
		return err
	}
	user.IsSeller = true
	m.replaceUser(ctx, user)
	return nil
}

// UpdateProfile submits edits and adopts the server's canonical record
// wholesale, so server-side normalization is never shadowed by a local
// merge.
func (m *Manager) UpdateProfile(ctx context.Context, fields model.ProfileUpdate) (*model.User, error) {
	user := m.CurrentUser()
	if user == nil {
		return nil, ErrNotAuthenticated
	}
	updated, err := m.backend.UpdateUser(ctx, user.ID, fields)
	if err != nil {
		return nil, err
	}
	m.replaceUser(ctx, updated)
	return updated, nil
}

func (m *Manager) setSession(ctx context.Context, token string, user *model.User) {
	m.mu.Lock()
	m.token = token
	m.user = user
	m.mu.Unlock()
	if err := m.store.SetString(ctx, store.KeyToken, token); err != nil {
		log.Printf("session: persist token failed: %v", err)
	}
	if err := m.store.SetJSON(ctx, store.KeyUser, user); err != nil {
		log.Printf("session: persist profile failed: %v", err)
	}
}

func (m *Manager) replaceUser(ctx context.Context, user *model.User) {
	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
	if err := m.store.SetJSON(ctx, store.KeyUser, user); err != nil {
		log.Printf("session: persist profile failed: %v", err)
	}
}

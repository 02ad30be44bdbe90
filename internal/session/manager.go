// Package session owns the dashboard's single signed-in session: it restores
// it from the token store, performs login and logout, and answers who the
// current user is.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"oncology-dashboard/internal/models"
	"oncology-dashboard/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMalformedResponse  = errors.New("malformed login response")
)

// Status is the lifecycle state of the session
type Status int

const (
	StatusLoading Status = iota
	StatusAuthenticated
	StatusAnonymous
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Snapshot is a consistent view of the session at one instant.
// Identity is only set when Status is StatusAuthenticated.
type Snapshot struct {
	Status   Status
	Identity *models.Identity
}

// Authenticator exchanges credentials for tokens.
type Authenticator interface {
	Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error)
}

// StatusCoder is implemented by errors that carry the backend's HTTP status.
type StatusCoder interface {
	HTTPStatus() int
}

// Manager holds the session. It is safe for concurrent use.
type Manager struct {
	store store.Store
	auth  Authenticator

	mu       sync.RWMutex
	status   Status
	identity *models.Identity
	pair     models.TokenPair
}

// NewManager creates a Manager in the loading state. Call Restore once the
// process is ready to serve.
func NewManager(s store.Store, auth Authenticator) *Manager {
	return &Manager{store: s, auth: auth, status: StatusLoading}
}

// Restore loads a previously stored session. A stored token that no longer
// decodes is discarded. Restore ends the loading state.
func (m *Manager) Restore() {
	saved, ok := m.store.Load()

	var identity models.Identity
	if ok {
		claims, err := DecodeIdentity(saved.Pair.Access)
		if err != nil {
			slog.Warn("discarding stored session", "error", err)
			_ = m.store.Clear()
			ok = false
		} else {
			identity = withProfile(claims, &saved.Identity)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status != StatusLoading {
		return
	}
	if !ok {
		m.setAnonymousLocked()
		return
	}
	m.pair = saved.Pair
	m.identity = &identity
	m.status = StatusAuthenticated
	slog.Info("session restored", "user_id", identity.ID, "role", identity.Role)
}

// Login exchanges credentials for a token pair, persists it and marks the
// session authenticated. On any failure nothing is persisted and the session
// is left anonymous.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	res, err := m.auth.Login(ctx, models.Credentials{Email: email, Password: password})
	if err != nil {
		m.Logout()
		var sc StatusCoder
		if errors.As(err, &sc) && sc.HTTPStatus() >= http.StatusBadRequest && sc.HTTPStatus() < http.StatusInternalServerError {
			return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
		}
		return err
	}

	if res == nil || res.Access == "" || res.Refresh == "" {
		m.Logout()
		return fmt.Errorf("%w: missing tokens", ErrMalformedResponse)
	}

	identity, err := DecodeIdentity(res.Access)
	if err != nil {
		m.Logout()
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if u := res.User; u != nil {
		if u.Email != "" {
			identity.Email = u.Email
		}
		if name := displayName(u); name != "" {
			identity.Name = name
		}
	}

	pair := models.TokenPair{Access: res.Access, Refresh: res.Refresh}
	if err := m.store.Save(pair, identity); err != nil {
		slog.Warn("session not persisted", "error", err)
	}

	m.mu.Lock()
	m.pair = pair
	m.identity = &identity
	m.status = StatusAuthenticated
	m.mu.Unlock()

	slog.Info("login successful", "user_id", identity.ID, "role", identity.Role)
	return nil
}

// Logout forgets the session. It is safe to call at any time.
func (m *Manager) Logout() {
	if err := m.store.Clear(); err != nil {
		slog.Warn("failed to clear stored session", "error", err)
	}
	m.toAnonymous()
}

// Tokens returns the current token pair, if any.
func (m *Manager) Tokens() (models.TokenPair, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.status != StatusAuthenticated {
		return models.TokenPair{}, false
	}
	return m.pair, true
}

// UpdateAccessToken installs a refreshed access token and re-derives the
// identity from it. Email and name from login survive the refresh.
func (m *Manager) UpdateAccessToken(access string) error {
	claims, err := DecodeIdentity(access)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status != StatusAuthenticated {
		return errors.New("no session to refresh")
	}
	identity := withProfile(claims, m.identity)
	m.pair.Access = access
	m.identity = &identity
	if err := m.store.Save(m.pair, identity); err != nil {
		slog.Warn("refreshed token not persisted", "error", err)
	}
	return nil
}

// Snapshot returns the session state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := Snapshot{Status: m.status}
	if m.identity != nil {
		identity := *m.identity
		snap.Identity = &identity
	}
	return snap
}

// CurrentIdentity returns the signed-in identity, or nil.
func (m *Manager) CurrentIdentity() *models.Identity {
	return m.Snapshot().Identity
}

func (m *Manager) IsAdmin() bool {
	id := m.CurrentIdentity()
	return id != nil && id.IsAdmin()
}

func (m *Manager) IsDoctor() bool {
	id := m.CurrentIdentity()
	return id != nil && id.IsDoctor()
}

func (m *Manager) IsLoading() bool {
	return m.Snapshot().Status == StatusLoading
}

func (m *Manager) toAnonymous() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setAnonymousLocked()
}

func (m *Manager) setAnonymousLocked() {
	m.status = StatusAnonymous
	m.identity = nil
	m.pair = models.TokenPair{}
}

// withProfile keeps the token's id and role and takes email and name from
// known when it describes the same user.
func withProfile(claims models.Identity, known *models.Identity) models.Identity {
	if known == nil || known.ID != claims.ID {
		return claims
	}
	if known.Email != "" {
		claims.Email = known.Email
	}
	if known.Name != "" {
		claims.Name = known.Name
	}
	return claims
}

func displayName(u *models.LoginUser) string {
	if u.Name != "" {
		return u.Name
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

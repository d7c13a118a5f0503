// Package session holds the client-side authentication state: the token pair,
// the authenticated account and the last auth-flow error. A Session is created
// once per process and injected wherever the state is read or changed.
package session

import (
	"fmt"
	"sync"

	apperrors "github.com/jrsteele09/sewtrack/internal/errors"
	"github.com/jrsteele09/sewtrack/tokenstore"
)

// Status is derived from the session fields, never stored.
type Status string

const (
	StatusAnonymous      Status = "anonymous"
	StatusAuthenticating Status = "authenticating"
	StatusAuthenticated  Status = "authenticated"
)

// Session is safe for concurrent use. Every mutation of the token pair is
// mirrored to the durable store in the same critical section.
type Session struct {
	mu sync.RWMutex

	store tokenstore.Repo

	accessToken    string
	refreshToken   string
	account        *AccountProfile
	lastError      string
	authenticating bool
}

// Snapshot is a point-in-time copy of the session.
type Snapshot struct {
	AccessToken  string
	RefreshToken string
	Account      *AccountProfile
	LastError    string
	Status       Status
}

// New returns an empty (anonymous) session persisting to store.
func New(store tokenstore.Repo) *Session {
	return &Session{store: store}
}

// Rehydrate loads previously persisted tokens without contacting the backend.
// A stale token is treated as valid until a request using it fails.
func (s *Session) Rehydrate() error {
	tokens, err := s.store.Load()
	if err != nil {
		return apperrors.Wrapf(fmt.Errorf("%w: %w", apperrors.ErrStorage, err), "[Session Rehydrate]")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if tokens.AccessToken == "" {
		return nil
	}
	s.accessToken = tokens.AccessToken
	s.refreshToken = tokens.RefreshToken
	return nil
}

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// Account returns a copy of the account, or nil.
func (s *Session) Account() *AccountProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account.clone()
}

func (s *Session) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status()
}

// IsAuthenticated reports whether an access token is held.
func (s *Session) IsAuthenticated() bool {
	return s.AccessToken() != ""
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		AccessToken:  s.accessToken,
		RefreshToken: s.refreshToken,
		Account:      s.account.clone(),
		LastError:    s.lastError,
		Status:       s.status(),
	}
}

// BeginAuthentication marks a login or signup as in flight and clears the
// previous error.
func (s *Session) BeginAuthentication() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticating = true
	s.lastError = ""
}

// Authenticate stores a freshly issued token pair and account. Both tokens are
// persisted in one write; an empty refreshToken removes any stale refresh entry.
func (s *Session) Authenticate(accessToken, refreshToken string, account *AccountProfile) error {
	if accessToken == "" {
		return apperrors.Wrapf(apperrors.ErrInvalidTokenPayload, "[Session Authenticate] missing access token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.authenticating = false
	if err := s.store.Save(tokenstore.Tokens{AccessToken: accessToken, RefreshToken: refreshToken}); err != nil {
		return apperrors.Wrapf(fmt.Errorf("%w: %w", apperrors.ErrStorage, err), "[Session Authenticate]")
	}
	s.accessToken = accessToken
	s.refreshToken = refreshToken
	s.account = account.clone()
	s.lastError = ""
	return nil
}

// ReplaceAccessToken installs the result of a silent refresh. An empty
// refreshToken keeps the current one. Fails with ErrNotAuthenticated when the
// session was cleared while the refresh was in flight, so a late refresh can
// not bring a logged-out session back.
func (s *Session) ReplaceAccessToken(accessToken, refreshToken string) error {
	if accessToken == "" {
		return apperrors.Wrapf(apperrors.ErrInvalidTokenPayload, "[Session ReplaceAccessToken] missing access token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken == "" {
		return apperrors.Wrapf(apperrors.ErrNotAuthenticated, "[Session ReplaceAccessToken]")
	}
	if refreshToken == "" {
		refreshToken = s.refreshToken
	}
	if err := s.store.Save(tokenstore.Tokens{AccessToken: accessToken, RefreshToken: refreshToken}); err != nil {
		return apperrors.Wrapf(fmt.Errorf("%w: %w", apperrors.ErrStorage, err), "[Session ReplaceAccessToken]")
	}
	s.accessToken = accessToken
	s.refreshToken = refreshToken
	return nil
}

// SetAccount replaces the account. Rejected while no access token is held.
func (s *Session) SetAccount(account *AccountProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken == "" {
		return apperrors.Wrapf(apperrors.ErrNotAuthenticated, "[Session SetAccount]")
	}
	s.account = account.clone()
	s.lastError = ""
	return nil
}

// Fail records an auth-flow error and ends any in-flight authentication.
// Tokens are left untouched.
func (s *Session) Fail(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticating = false
	s.lastError = message
}

// Clear empties every field and both durable entries. It reports whether the
// in-memory session held anything. The durable store is cleared regardless,
// and a storage failure does not keep the in-memory tokens alive.
func (s *Session) Clear() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hadState := s.accessToken != "" || s.refreshToken != "" || s.account != nil || s.lastError != ""
	s.accessToken = ""
	s.refreshToken = ""
	s.account = nil
	s.lastError = ""
	s.authenticating = false

	if err := s.store.Clear(); err != nil {
		return hadState, apperrors.Wrapf(fmt.Errorf("%w: %w", apperrors.ErrStorage, err), "[Session Clear]")
	}
	return hadState, nil
}

func (s *Session) status() Status {
	switch {
	case s.accessToken != "":
		return StatusAuthenticated
	case s.authenticating:
		return StatusAuthenticating
	default:
		return StatusAnonymous
	}
}

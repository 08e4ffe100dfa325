package client

import (
	"context"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// SessionSnapshot is an immutable view of the current session, safe to hand
// to rendering code and to the route guard.
type SessionSnapshot struct {
	Status           SessionStatus
	User             *UserProfile
	Token            string
	TwoFactorEnabled bool
	Challenge        *TwoFactorChallenge
	Hydrated         bool
}

// Authenticated reports whether both user and token are established.
func (s SessionSnapshot) Authenticated() bool {
	return s.Status == StatusAuthenticated && s.User != nil && s.Token != ""
}

// SessionStore holds the one session that exists per running client. It is
// the only component that touches durable token storage: Commit and Clear
// are the sole writers, and in-memory state is kept consistent with the
// stored slot after every operation.
type SessionStore struct {
	mu     sync.RWMutex
	api    CredentialAPI
	tokens TokenStore
	logger Logger
	sink   ActivitySink
	now    func() time.Time

	status           SessionStatus
	user             *UserProfile
	token            string
	twoFactorEnabled bool
	challenge        *TwoFactorChallenge
	hydrated         bool
}

// SessionStoreOption customizes SessionStore construction.
type SessionStoreOption func(*SessionStore)

// WithSessionLogger overrides the logger.
func WithSessionLogger(l Logger) SessionStoreOption {
	return func(s *SessionStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSessionActivitySink sets the ActivitySink notified when a session is
// restored from storage.
func WithSessionActivitySink(sink ActivitySink) SessionStoreOption {
	return func(s *SessionStore) {
		s.sink = normalizeActivitySink(sink)
	}
}

// WithSessionClock injects a custom clock (useful for tests).
func WithSessionClock(clock func() time.Time) SessionStoreOption {
	return func(s *SessionStore) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewSessionStore returns a store bound to the given credential API and
// token storage. Call Hydrate before rendering protected routes.
func NewSessionStore(api CredentialAPI, tokens TokenStore, opts ...SessionStoreOption) *SessionStore {
	s := &SessionStore{
		api:    api,
		tokens: tokens,
		logger: defLogger{},
		sink:   noopActivitySink{},
		now:    time.Now,
		status: StatusUnauthenticated,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// Hydrate restores the session from durable storage on startup. An invalid
// stored token is recovered silently: the slot is cleared and the session
// resolves unauthenticated. Transport failures are returned so the caller
// can keep showing a loading state and retry.
func (s *SessionStore) Hydrate(ctx context.Context) error {
	token, err := s.tokens.Load(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load stored token")
	}

	if token == "" {
		s.mu.Lock()
		s.resetLocked()
		s.hydrated = true
		s.mu.Unlock()
		return nil
	}

	profile, err := s.api.VerifyToken(ctx, token)
	if err != nil {
		if IsInvalidToken(err) || IsUnauthorized(err) {
			s.logger.Info("stored token rejected, clearing session")
			if clearErr := s.tokens.Clear(ctx); clearErr != nil {
				return clearErr
			}
			s.mu.Lock()
			s.resetLocked()
			s.hydrated = true
			s.mu.Unlock()
			return nil
		}
		return err
	}

	s.mu.Lock()
	s.status = StatusAuthenticated
	s.user = profile
	s.token = token
	s.twoFactorEnabled = profile.TwoFactorEnabled
	s.challenge = nil
	s.hydrated = true
	s.mu.Unlock()

	s.logger.Debug("session hydrated for %s", profile.Email)

	if err := s.sink.Record(ctx, ActivityEvent{
		EventType:  ActivityEventSessionHydrated,
		Email:      profile.Email,
		UserID:     profile.ID,
		FromStatus: StatusUnauthenticated,
		ToStatus:   StatusAuthenticated,
		OccurredAt: s.now(),
	}); err != nil {
		s.logger.Warn("session activity sink error: %v", err)
	}

	return nil
}

// Commit persists the token and establishes the authenticated session.
// Storage is written first so memory never claims a session the next run
// cannot restore.
func (s *SessionStore) Commit(ctx context.Context, token string, user *UserProfile) error {
	if token == "" || user == nil {
		return ErrInvalidTransition.WithMetadata(map[string]any{
			"reason": "commit requires both token and user",
		})
	}

	if err := s.tokens.Save(ctx, token); err != nil {
		return err
	}

	s.mu.Lock()
	s.status = StatusAuthenticated
	s.user = user
	s.token = token
	s.twoFactorEnabled = user.TwoFactorEnabled
	s.challenge = nil
	s.hydrated = true
	s.mu.Unlock()

	return nil
}

// Clear removes the persisted token and resets to unauthenticated,
// discarding any pending challenge. Memory is reset even when storage
// removal fails so the UI never stays logged in; the error is still
// returned for the caller to surface.
func (s *SessionStore) Clear(ctx context.Context) error {
	err := s.tokens.Clear(ctx)

	s.mu.Lock()
	s.resetLocked()
	s.hydrated = true
	s.mu.Unlock()

	return err
}

// Snapshot returns the current session view.
func (s *SessionStore) Snapshot() SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var challenge *TwoFactorChallenge
	if s.challenge != nil {
		c := *s.challenge
		challenge = &c
	}

	var user *UserProfile
	if s.user != nil {
		u := *s.user
		user = &u
	}

	return SessionSnapshot{
		Status:           s.status,
		User:             user,
		Token:            s.token,
		TwoFactorEnabled: s.twoFactorEnabled,
		Challenge:        challenge,
		Hydrated:         s.hydrated,
	}
}

// Token implements TokenSource for downstream API clients.
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Status returns the current session status.
func (s *SessionStore) Status() SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Authenticated reports whether a full session is established.
func (s *SessionStore) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status == StatusAuthenticated && s.user != nil && s.token != ""
}

// TwoFactorEnabled reports whether the cached profile has 2FA on.
func (s *SessionStore) TwoFactorEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.twoFactorEnabled
}

// TokenClaims returns the display-only claims peek for the current token.
func (s *SessionStore) TokenClaims() (*TokenClaims, error) {
	token := s.Token()
	if token == "" {
		return nil, ErrUnauthorized
	}
	return PeekTokenClaims(token)
}

func (s *SessionStore) resetLocked() {
	s.status = StatusUnauthenticated
	s.user = nil
	s.token = ""
	s.twoFactorEnabled = false
	s.challenge = nil
}

// The setters below are used by the auth state machine, which owns the
// transition rules. They never touch durable storage.

func (s *SessionStore) setStatus(status SessionStatus) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

func (s *SessionStore) beginChallenge(email string) {
	s.mu.Lock()
	s.status = StatusPendingTwoFactor
	s.challenge = &TwoFactorChallenge{Email: email, CreatedAt: s.now()}
	s.mu.Unlock()
}

func (s *SessionStore) challengeEmail() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.challenge == nil {
		return "", false
	}
	return s.challenge.Email, true
}

func (s *SessionStore) dropChallenge() {
	s.mu.Lock()
	s.challenge = nil
	if s.status == StatusPendingTwoFactor {
		s.status = StatusUnauthenticated
	}
	s.mu.Unlock()
}

func (s *SessionStore) setTwoFactorEnabled(enabled bool) {
	s.mu.Lock()
	s.twoFactorEnabled = enabled
	if s.user != nil {
		u := *s.user
		u.TwoFactorEnabled = enabled
		s.user = &u
	}
	s.mu.Unlock()
}

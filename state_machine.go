package client

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/goliatone/go-print"
)

// AuthFlow orchestrates login, two-factor verification, registration, and
// logout. It owns the transition rules between session statuses and
// enforces that only one auth intent is in flight at a time (the state
// machine rendering of "disable the submit button while pending").
type AuthFlow struct {
	api         CredentialAPI
	session     *SessionStore
	transitions map[SessionStatus]map[SessionStatus]struct{}
	inFlight    atomic.Bool
	logger      Logger
	sink        ActivitySink
	now         func() time.Time
}

// AuthFlowOption customizes AuthFlow construction.
type AuthFlowOption func(*AuthFlow)

// WithFlowLogger overrides the logger.
func WithFlowLogger(l Logger) AuthFlowOption {
	return func(f *AuthFlow) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithFlowActivitySink sets the ActivitySink used to publish auth events.
func WithFlowActivitySink(sink ActivitySink) AuthFlowOption {
	return func(f *AuthFlow) {
		f.sink = normalizeActivitySink(sink)
	}
}

// WithFlowClock injects a custom clock (useful for tests).
func WithFlowClock(clock func() time.Time) AuthFlowOption {
	return func(f *AuthFlow) {
		if clock != nil {
			f.now = clock
		}
	}
}

// NewAuthFlow returns the state machine bound to the given credential API
// and session store.
func NewAuthFlow(api CredentialAPI, session *SessionStore, opts ...AuthFlowOption) *AuthFlow {
	f := &AuthFlow{
		api:     api,
		session: session,
		transitions: map[SessionStatus]map[SessionStatus]struct{}{
			StatusUnauthenticated: {
				StatusAuthenticating: {},
			},
			StatusAuthenticating: {
				StatusAuthenticated:    {},
				StatusPendingTwoFactor: {},
				StatusUnauthenticated:  {},
			},
			StatusPendingTwoFactor: {
				StatusAuthenticated:   {},
				StatusUnauthenticated: {},
			},
			StatusAuthenticated: {
				StatusUnauthenticated: {},
			},
		},
		logger: defLogger{},
		sink:   noopActivitySink{},
		now:    time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}

	return f
}

// Session exposes the store this flow drives.
func (f *AuthFlow) Session() *SessionStore {
	return f.session
}

// SubmitLogin runs the password step. Without 2FA the session is committed
// directly; with 2FA a challenge is created and no token is persisted until
// SubmitTwoFactorCode succeeds. On failure the session returns to
// unauthenticated and the error kind is surfaced to the caller.
func (f *AuthFlow) SubmitLogin(ctx context.Context, creds Credentials) error {
	if err := creds.Validate(); err != nil {
		return wrapValidation(err)
	}

	if err := f.begin(); err != nil {
		return err
	}
	defer f.end()

	from := f.session.Status()
	if !f.canTransition(from, StatusAuthenticating) {
		return ErrInvalidTransition.WithMetadata(map[string]any{
			"from":   from,
			"intent": "login",
		})
	}

	f.session.setStatus(StatusAuthenticating)

	res, err := f.api.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		f.session.setStatus(StatusUnauthenticated)
		f.record(ctx, ActivityEvent{
			EventType:  ActivityEventLoginFailure,
			Email:      creds.Email,
			FromStatus: from,
			ToStatus:   StatusUnauthenticated,
			Metadata:   map[string]any{"error": err.Error()},
		})
		return err
	}

	if res.TwoFactorRequired {
		f.session.beginChallenge(creds.Email)
		f.record(ctx, ActivityEvent{
			EventType:  ActivityEventTwoFactorChallenge,
			Email:      creds.Email,
			FromStatus: from,
			ToStatus:   StatusPendingTwoFactor,
		})
		return nil
	}

	if err := f.session.Commit(ctx, res.Token, res.User); err != nil {
		f.session.setStatus(StatusUnauthenticated)
		return err
	}

	f.record(ctx, ActivityEvent{
		EventType:  ActivityEventLoginSuccess,
		Email:      creds.Email,
		UserID:     res.User.ID,
		FromStatus: from,
		ToStatus:   StatusAuthenticated,
	})

	return nil
}

// SubmitTwoFactorCode completes a pending challenge. On a rejected code the
// session stays in the pending state so the user can retry; any lockout
// after repeated failures is server policy.
func (f *AuthFlow) SubmitTwoFactorCode(ctx context.Context, code string) error {
	if err := f.begin(); err != nil {
		return err
	}
	defer f.end()

	from := f.session.Status()
	email, ok := f.session.challengeEmail()
	if from != StatusPendingTwoFactor || !ok {
		return ErrInvalidTransition.WithMetadata(map[string]any{
			"from":   from,
			"intent": "verify_2fa",
		})
	}

	res, err := f.api.VerifyTwoFactor(ctx, email, code)
	if err != nil {
		f.record(ctx, ActivityEvent{
			EventType:  ActivityEventTwoFactorFailure,
			Email:      email,
			FromStatus: from,
			ToStatus:   StatusPendingTwoFactor,
			Metadata:   map[string]any{"error": err.Error()},
		})
		return err
	}

	if err := f.session.Commit(ctx, res.Token, res.User); err != nil {
		return err
	}

	f.record(ctx, ActivityEvent{
		EventType:  ActivityEventTwoFactorVerified,
		Email:      email,
		UserID:     res.User.ID,
		FromStatus: from,
		ToStatus:   StatusAuthenticated,
	})

	return nil
}

// SubmitRegistration creates an account and commits the session directly.
// Registration never triggers a 2FA challenge; 2FA is opt-in afterwards.
func (f *AuthFlow) SubmitRegistration(ctx context.Context, payload RegisterPayload) error {
	if err := payload.Validate(); err != nil {
		return wrapValidation(err)
	}

	if err := f.begin(); err != nil {
		return err
	}
	defer f.end()

	from := f.session.Status()
	if !f.canTransition(from, StatusAuthenticating) {
		return ErrInvalidTransition.WithMetadata(map[string]any{
			"from":   from,
			"intent": "register",
		})
	}

	f.session.setStatus(StatusAuthenticating)

	res, err := f.api.Register(ctx, payload)
	if err != nil {
		f.session.setStatus(StatusUnauthenticated)
		f.logger.Debug("registration failed: %s", print.MaybePrettyJSON(map[string]any{
			"email": payload.Email,
			"error": err.Error(),
		}))
		return err
	}

	if err := f.session.Commit(ctx, res.Token, res.User); err != nil {
		f.session.setStatus(StatusUnauthenticated)
		return err
	}

	f.record(ctx, ActivityEvent{
		EventType:  ActivityEventRegistered,
		Email:      payload.Email,
		UserID:     res.User.ID,
		FromStatus: from,
		ToStatus:   StatusAuthenticated,
	})

	return nil
}

// Logout clears the session from any state, discarding pending challenges.
func (f *AuthFlow) Logout(ctx context.Context) error {
	if err := f.begin(); err != nil {
		return err
	}
	defer f.end()

	from := f.session.Status()
	err := f.session.Clear(ctx)

	f.record(ctx, ActivityEvent{
		EventType:  ActivityEventLogout,
		FromStatus: from,
		ToStatus:   StatusUnauthenticated,
	})

	return err
}

// AbandonTwoFactor drops a pending challenge without contacting the
// backend, returning the session to unauthenticated.
func (f *AuthFlow) AbandonTwoFactor() error {
	from := f.session.Status()
	if from != StatusPendingTwoFactor {
		return ErrInvalidTransition.WithMetadata(map[string]any{
			"from":   from,
			"intent": "abandon_2fa",
		})
	}

	f.session.dropChallenge()
	return nil
}

// ToggleTwoFactor enables or disables 2FA for the current account. Valid
// only while authenticated; updates the cached profile flag without
// changing the session status.
func (f *AuthFlow) ToggleTwoFactor(ctx context.Context, enable bool) error {
	if err := f.begin(); err != nil {
		return err
	}
	defer f.end()

	if !f.session.Authenticated() {
		return ErrInvalidTransition.WithMetadata(map[string]any{
			"from":   f.session.Status(),
			"intent": "toggle_2fa",
		})
	}

	token := f.session.Token()

	var err error
	if enable {
		err = f.api.EnableTwoFactor(ctx, token)
	} else {
		err = f.api.DisableTwoFactor(ctx, token)
	}
	if err != nil {
		return err
	}

	f.session.setTwoFactorEnabled(enable)

	snap := f.session.Snapshot()
	f.record(ctx, ActivityEvent{
		EventType:  ActivityEventTwoFactorToggled,
		Email:      snap.User.Email,
		UserID:     snap.User.ID,
		FromStatus: StatusAuthenticated,
		ToStatus:   StatusAuthenticated,
		Metadata:   map[string]any{"enabled": enable},
	})

	return nil
}

// GenerateTwoFactorSecret provisions a fresh TOTP secret for the current
// account. Valid only while authenticated.
func (f *AuthFlow) GenerateTwoFactorSecret(ctx context.Context) (*TwoFactorSecret, error) {
	if err := f.begin(); err != nil {
		return nil, err
	}
	defer f.end()

	snap := f.session.Snapshot()
	if !snap.Authenticated() {
		return nil, ErrInvalidTransition.WithMetadata(map[string]any{
			"from":   snap.Status,
			"intent": "generate_2fa_secret",
		})
	}

	return f.api.GenerateTwoFactorSecret(ctx, snap.Token, snap.User.Email)
}

func (f *AuthFlow) begin() error {
	if !f.inFlight.CompareAndSwap(false, true) {
		return ErrFlowInProgress
	}
	return nil
}

func (f *AuthFlow) end() {
	f.inFlight.Store(false)
}

func (f *AuthFlow) canTransition(from, to SessionStatus) bool {
	if allowed, ok := f.transitions[from]; ok {
		_, exists := allowed[to]
		return exists
	}
	return false
}

func (f *AuthFlow) record(ctx context.Context, event ActivityEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = f.now()
	}

	sink := normalizeActivitySink(f.sink)
	if err := sink.Record(ctx, event); err != nil {
		f.logger.Warn("auth flow activity sink error: %v", err)
	}
}

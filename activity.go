package client

import (
	"context"
	"time"
)

// ActivityEventType enumerates supported activity categories.
type ActivityEventType string

const (
	ActivityEventLoginSuccess       ActivityEventType = "auth.login.success"
	ActivityEventLoginFailure       ActivityEventType = "auth.login.failure"
	ActivityEventTwoFactorChallenge ActivityEventType = "auth.2fa.challenged"
	ActivityEventTwoFactorVerified  ActivityEventType = "auth.2fa.verified"
	ActivityEventTwoFactorFailure   ActivityEventType = "auth.2fa.failure"
	ActivityEventTwoFactorToggled   ActivityEventType = "auth.2fa.toggled"
	ActivityEventRegistered         ActivityEventType = "auth.register.success"
	ActivityEventLogout             ActivityEventType = "auth.logout"
	ActivityEventSessionHydrated    ActivityEventType = "session.hydrated"
)

// ActivityEvent captures audit-friendly information about an auth action.
type ActivityEvent struct {
	EventType  ActivityEventType
	Email      string
	UserID     int64
	FromStatus SessionStatus
	ToStatus   SessionStatus
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivitySink consumes activity events for auditing/telemetry purposes.
// Sinks run best-effort: errors are logged, never propagated.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) error {
	return nil
}

func normalizeActivitySink(s ActivitySink) ActivitySink {
	if s == nil {
		return noopActivitySink{}
	}
	return s
}

package client

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// CredentialAPI wraps the backend authentication endpoints. Implementations
// perform network calls only; they never touch persisted storage.
type CredentialAPI interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, payload RegisterPayload) (*AuthResult, error)
	VerifyToken(ctx context.Context, token string) (*UserProfile, error)
	GenerateTwoFactorSecret(ctx context.Context, token, email string) (*TwoFactorSecret, error)
	VerifyTwoFactor(ctx context.Context, email, code string) (*AuthResult, error)
	EnableTwoFactor(ctx context.Context, token string) error
	DisableTwoFactor(ctx context.Context, token string) error
}

// TokenStore is the durable slot the bearer token lives in between runs.
// Load returns an empty string (and no error) when the slot is empty.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// TokenSource yields the current bearer token, empty when logged out.
// *SessionStore satisfies this for downstream API clients.
type TokenSource interface {
	Token() string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] CLIENT "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] CLIENT "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] CLIENT "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] CLIENT "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}

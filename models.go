package client

import "time"

// UserRole is the role the backend assigned to an account.
type UserRole = string

const (
	// RoleUser is a regular employee (submit requests, view own history)
	RoleUser UserRole = "USER"
	// RoleManager can additionally approve or reject team requests
	RoleManager UserRole = "MANAGER"
	// RoleAdmin can additionally manage leave-type configuration
	RoleAdmin UserRole = "ADMIN"
)

// SessionStatus is the lifecycle state of the client session.
type SessionStatus string

const (
	// StatusUnauthenticated means no identity is established
	StatusUnauthenticated SessionStatus = "unauthenticated"
	// StatusAuthenticating means a login or registration call is in flight
	StatusAuthenticating SessionStatus = "authenticating"
	// StatusPendingTwoFactor means the password was accepted but the account
	// requires a second factor that has not been supplied yet
	StatusPendingTwoFactor SessionStatus = "pending_2fa"
	// StatusAuthenticated means both user and token are established
	StatusAuthenticated SessionStatus = "authenticated"
)

// UserProfile is the read-only cached copy of the backend's user record.
// It is refreshed whenever the stored token is verified.
type UserProfile struct {
	ID               int64    `json:"id,omitempty"`
	FirstName        string   `json:"firstName,omitempty"`
	LastName         string   `json:"lastName,omitempty"`
	Email            string   `json:"email,omitempty"`
	Role             UserRole `json:"role,omitempty"`
	ProfilePicture   string   `json:"profilePicture,omitempty"`
	TwoFactorEnabled bool     `json:"twoFactorEnabled,omitempty"`
}

// FullName joins the profile's name parts for display.
func (u *UserProfile) FullName() string {
	if u == nil {
		return ""
	}
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// TwoFactorChallenge is created when a login response signals that the
// account requires a second factor. At most one challenge exists at a time;
// it is consumed when verification succeeds or the flow is abandoned.
type TwoFactorChallenge struct {
	Email     string
	CreatedAt time.Time
}

// TwoFactorSecret is the result of provisioning a new TOTP secret.
type TwoFactorSecret struct {
	Secret    string `json:"secret"`
	QRCodeURL string `json:"qrCodeUrl"`
}

// LoginResult is the outcome of a password login. When TwoFactorRequired is
// set the backend withheld the token and the caller must complete the
// challenge before a session exists.
type LoginResult struct {
	Token             string
	User              *UserProfile
	TwoFactorRequired bool
}

// AuthResult is a fully established identity: registration and 2FA
// verification always return both token and profile.
type AuthResult struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"user"`
}

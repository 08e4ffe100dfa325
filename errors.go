package client

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCredentials = "auth_invalid_credentials"
	TextCodeInvalidCode        = "auth_invalid_2fa_code"
	TextCodeInvalidToken       = "auth_invalid_token"
	TextCodeValidation         = "auth_validation_failed"
	TextCodeDuplicateAccount   = "auth_duplicate_account"
	TextCodeUnauthorized       = "auth_unauthorized"
	TextCodeNetwork            = "auth_network_unreachable"
	TextCodeServer             = "auth_server_error"
	TextCodeFlowConflict       = "auth_flow_conflict"
	TextCodeInvalidTransition  = "auth_invalid_transition"
)

// ErrInvalidCredentials is returned when the backend rejects the email/password pair.
var ErrInvalidCredentials = goerrors.New("invalid email or password", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidCode is returned when the backend rejects a two-factor code.
var ErrInvalidCode = goerrors.New("invalid two-factor code", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCode).
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidToken is returned when a stored token is expired or malformed.
// Callers must treat this as "not authenticated", never as fatal.
var ErrInvalidToken = goerrors.New("token is invalid or expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidToken).
	WithCode(goerrors.CodeUnauthorized)

// ErrDuplicateAccount is returned when registration hits an existing account.
var ErrDuplicateAccount = goerrors.New("account already exists", goerrors.CategoryConflict).
	WithTextCode(TextCodeDuplicateAccount).
	WithCode(goerrors.CodeConflict)

// ErrUnauthorized is returned when an authenticated call is made without a
// valid current token.
var ErrUnauthorized = goerrors.New("request is not authorized", goerrors.CategoryAuth).
	WithTextCode(TextCodeUnauthorized).
	WithCode(goerrors.CodeUnauthorized)

// ErrNetwork is returned when the backend gave no response (DNS, refused
// connection, timeout). The user resubmits manually; there is no retry.
var ErrNetwork = goerrors.New("authentication service unreachable", goerrors.CategoryOperation).
	WithTextCode(TextCodeNetwork)

// ErrServer is returned on 5xx responses and on payloads that do not match
// the documented contract.
var ErrServer = goerrors.New("authentication service error", goerrors.CategoryInternal).
	WithTextCode(TextCodeServer)

// ErrFlowInProgress is returned when an auth intent is submitted while
// another one is still outstanding.
var ErrFlowInProgress = goerrors.New("another authentication request is in flight", goerrors.CategoryConflict).
	WithTextCode(TextCodeFlowConflict).
	WithCode(goerrors.CodeConflict)

// ErrInvalidTransition is returned when an intent is not valid from the
// current session status.
var ErrInvalidTransition = goerrors.New("invalid session state transition", goerrors.CategoryValidation).
	WithTextCode(TextCodeInvalidTransition).
	WithCode(goerrors.CodeBadRequest)

// wrapValidation converts a pre-flight validation failure into the shared
// taxonomy before any network call happens.
func wrapValidation(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, "payload failed validation").
		WithTextCode(TextCodeValidation).
		WithCode(goerrors.CodeBadRequest)
}

// ErrorTextCode extracts the taxonomy code from any error in the chain.
func ErrorTextCode(err error) string {
	if err == nil {
		return ""
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.TextCode
	}
	return ""
}

// IsInvalidCredentials will check for rejected email/password pairs
func IsInvalidCredentials(err error) bool {
	return ErrorTextCode(err) == TextCodeInvalidCredentials
}

// IsInvalidCode will check for rejected two-factor codes
func IsInvalidCode(err error) bool {
	return ErrorTextCode(err) == TextCodeInvalidCode
}

// IsInvalidToken will check for expired or malformed tokens
func IsInvalidToken(err error) bool {
	return ErrorTextCode(err) == TextCodeInvalidToken
}

// IsValidationError will check for client-side pre-flight failures
func IsValidationError(err error) bool {
	return ErrorTextCode(err) == TextCodeValidation
}

// IsDuplicateAccount will check for registration conflicts
func IsDuplicateAccount(err error) bool {
	return ErrorTextCode(err) == TextCodeDuplicateAccount
}

// IsUnauthorized will check for missing/invalid tokens on authenticated calls
func IsUnauthorized(err error) bool {
	return ErrorTextCode(err) == TextCodeUnauthorized
}

// IsNetworkError will check for transport-level failures
func IsNetworkError(err error) bool {
	return ErrorTextCode(err) == TextCodeNetwork
}

// IsServerError will check for 5xx and contract-violating responses
func IsServerError(err error) bool {
	return ErrorTextCode(err) == TextCodeServer
}

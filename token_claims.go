package client

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// TokenClaims is a best-effort, unverified peek at the bearer token. The
// token is opaque as far as authorization goes: expiry detection stays
// server-driven, these values are for display only (e.g. "session expires
// at ...").
type TokenClaims struct {
	Subject   string
	IssuedAt  *time.Time
	ExpiresAt *time.Time
}

// PeekTokenClaims decodes the token without verifying its signature.
// Non-JWT tokens yield an invalid-token error the caller may ignore.
func PeekTokenClaims(token string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "token is not a decodable JWT").
			WithTextCode(TextCodeInvalidToken)
	}

	out := &TokenClaims{}

	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		t := iat.Time
		out.IssuedAt = &t
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		out.ExpiresAt = &t
	}

	return out, nil
}

package client

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Credentials carries a transient email/password pair. It is never persisted.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (c Credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(
			&c.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&c.Password,
			validation.Required,
		),
	)
}

// RegisterPayload holds values for account registration. ConfirmPassword is
// checked client-side and never sent to the backend.
type RegisterPayload struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"-"`
	Role            string `json:"role"`
}

// Validate will validate the payload
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.By(validateStringEquals(r.Password)),
		),
		validation.Field(&r.Role, validation.Required, validation.By(validateRole)),
	)
}

// TwoFactorCodePayload is the email + one-time code pair sent to verify-2fa.
type TwoFactorCodePayload struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// Validate will validate the payload. The code must be exactly six numeric
// digits; anything else is rejected before a network call is made.
func (p TwoFactorCodePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(
			&p.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&p.Code,
			validation.Required,
			validation.Length(6, 6),
			is.Digit,
		),
	)
}

func validateStringEquals(expected string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != expected {
			return fmt.Errorf("values do not match")
		}
		return nil
	}
}

func validateRole(value any) error {
	s, _ := value.(string)
	if _, ok := ParseRole(s); !ok {
		return fmt.Errorf("must be one of %v", GetAllRoles())
	}
	return nil
}

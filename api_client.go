package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// DefaultRequestTimeout bounds every credential call. Expiry surfaces as a
// network error; the user resubmits manually.
const DefaultRequestTimeout = 10 * time.Second

var _ CredentialAPI = &APIClient{}

// APIClient talks to the backend authentication endpoints under /api/auth.
type APIClient struct {
	baseURL string
	http    *http.Client
	logger  Logger
}

// APIClientOption customizes APIClient construction.
type APIClientOption func(*APIClient)

// WithHTTPClient replaces the underlying HTTP client (useful for tests).
func WithHTTPClient(hc *http.Client) APIClientOption {
	return func(c *APIClient) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRequestTimeout overrides the default per-request timeout.
func WithRequestTimeout(d time.Duration) APIClientOption {
	return func(c *APIClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithAPILogger overrides the logger.
func WithAPILogger(l Logger) APIClientOption {
	return func(c *APIClient) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewAPIClient returns a credential client rooted at baseURL, e.g.
// "http://localhost:8081/api/auth".
func NewAPIClient(baseURL string, opts ...APIClientOption) *APIClient {
	c := &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultRequestTimeout},
		logger:  defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

// loginResponse keeps the 2FA flag as a pointer so a response that omits
// both the token and the flag can be told apart from twoFactorEnabled=false.
type loginResponse struct {
	Token            string       `json:"token"`
	User             *UserProfile `json:"user"`
	TwoFactorEnabled *bool        `json:"twoFactorEnabled"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Login exchanges credentials for a token, or for a two-factor challenge
// signal when the account has 2FA enabled.
func (c *APIClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := Credentials{Email: email, Password: password}

	var out loginResponse
	status, raw, err := c.do(ctx, http.MethodPost, "/login", "", body, &out)
	if err != nil {
		return nil, err
	}

	switch {
	case status == http.StatusOK:
		// fallthrough to payload checks below
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return nil, ErrInvalidCredentials
	default:
		return nil, c.serverError("login", status, raw)
	}

	if out.TwoFactorEnabled != nil && *out.TwoFactorEnabled && out.Token == "" {
		return &LoginResult{TwoFactorRequired: true}, nil
	}

	// A success response with neither token nor 2FA flag violates the
	// contract and must not be silently accepted.
	if out.Token == "" || out.User == nil {
		return nil, c.serverError("login", status, raw)
	}

	return &LoginResult{Token: out.Token, User: out.User}, nil
}

// Register creates an account and returns an established identity.
// Validation runs before any network call.
func (c *APIClient) Register(ctx context.Context, payload RegisterPayload) (*AuthResult, error) {
	if err := payload.Validate(); err != nil {
		return nil, wrapValidation(err)
	}

	var out AuthResult
	status, raw, err := c.do(ctx, http.MethodPost, "/register", "", payload, &out)
	if err != nil {
		return nil, err
	}

	switch {
	case status == http.StatusOK || status == http.StatusCreated:
	case status == http.StatusConflict:
		return nil, ErrDuplicateAccount
	default:
		return nil, c.serverError("register", status, raw)
	}

	if out.Token == "" || out.User == nil {
		return nil, c.serverError("register", status, raw)
	}

	return &out, nil
}

// VerifyToken asks the backend whether a stored token still identifies a
// user. An invalid token is a normal outcome, not a fatal error.
func (c *APIClient) VerifyToken(ctx context.Context, token string) (*UserProfile, error) {
	var out UserProfile
	status, raw, err := c.do(ctx, http.MethodGet, "/verify-token", token, nil, &out)
	if err != nil {
		return nil, err
	}

	switch {
	case status == http.StatusOK:
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return nil, ErrInvalidToken
	default:
		return nil, c.serverError("verify-token", status, raw)
	}

	return &out, nil
}

// GenerateTwoFactorSecret provisions a fresh TOTP secret. Regenerating
// invalidates the previous secret server-side.
func (c *APIClient) GenerateTwoFactorSecret(ctx context.Context, token, email string) (*TwoFactorSecret, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	body := map[string]string{"email": email}

	var out TwoFactorSecret
	status, raw, err := c.do(ctx, http.MethodPost, "/2fa/generate", token, body, &out)
	if err != nil {
		return nil, err
	}

	switch {
	case status == http.StatusOK:
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return nil, ErrUnauthorized
	default:
		return nil, c.serverError("2fa/generate", status, raw)
	}

	if out.Secret == "" {
		return nil, c.serverError("2fa/generate", status, raw)
	}

	return &out, nil
}

// VerifyTwoFactor completes a pending challenge. The code format is
// validated before any network call.
func (c *APIClient) VerifyTwoFactor(ctx context.Context, email, code string) (*AuthResult, error) {
	payload := TwoFactorCodePayload{Email: email, Code: code}
	if err := payload.Validate(); err != nil {
		return nil, wrapValidation(err)
	}

	var out AuthResult
	status, raw, err := c.do(ctx, http.MethodPost, "/verify-2fa", "", payload, &out)
	if err != nil {
		return nil, err
	}

	switch {
	case status == http.StatusOK:
	case status == http.StatusUnauthorized || status == http.StatusForbidden || status == http.StatusBadRequest:
		return nil, ErrInvalidCode
	default:
		return nil, c.serverError("verify-2fa", status, raw)
	}

	if out.Token == "" || out.User == nil {
		return nil, c.serverError("verify-2fa", status, raw)
	}

	return &out, nil
}

// EnableTwoFactor turns on 2FA for the account the token identifies.
func (c *APIClient) EnableTwoFactor(ctx context.Context, token string) error {
	return c.toggleTwoFactor(ctx, token, "/2fa/enable")
}

// DisableTwoFactor turns off 2FA for the account the token identifies.
func (c *APIClient) DisableTwoFactor(ctx context.Context, token string) error {
	return c.toggleTwoFactor(ctx, token, "/2fa/disable")
}

func (c *APIClient) toggleTwoFactor(ctx context.Context, token, path string) error {
	if token == "" {
		return ErrUnauthorized
	}

	status, raw, err := c.do(ctx, http.MethodPost, path, token, struct{}{}, nil)
	if err != nil {
		return err
	}

	switch {
	case status == http.StatusOK || status == http.StatusNoContent:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrUnauthorized
	default:
		return c.serverError(strings.TrimPrefix(path, "/"), status, raw)
	}
}

// do issues a single JSON request. A nil response (transport failure,
// timeout, cancellation) maps to ErrNetwork; callers map status codes.
func (c *APIClient) do(ctx context.Context, method, path, token string, body, out any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to build request")
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed: %s %s: %v", method, path, err)
		return 0, nil, goerrors.Wrap(err, goerrors.CategoryOperation, "authentication service unreachable").
			WithTextCode(TextCodeNetwork)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to read response").
			WithTextCode(TextCodeNetwork)
	}

	if out != nil && res.StatusCode < http.StatusMultipleChoices && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return res.StatusCode, raw, goerrors.Wrap(err, goerrors.CategoryInternal, "unexpected response payload").
				WithTextCode(TextCodeServer)
		}
	}

	return res.StatusCode, raw, nil
}

func (c *APIClient) serverError(op string, status int, raw []byte) error {
	meta := map[string]any{
		"operation": op,
		"status":    status,
	}

	var body errorResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
			meta["message"] = body.Message
		}
	}

	c.logger.Error("unexpected response from %s: %d", op, status)

	return goerrors.New(fmt.Sprintf("authentication service error (%s)", op), goerrors.CategoryInternal).
		WithTextCode(TextCodeServer).
		WithMetadata(meta)
}

// Package leave is the bearer-token REST client for the leave-management
// and admin endpoints (/api/leave, /api/admin). It consumes the session
// established by the auth core: any unauthorized response is surfaced with
// the shared taxonomy so the caller can invalidate the session.
package leave

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	client "github.com/africahr/go-leave-client"
)

// Client talks to /api/leave and /api/admin with the current session token.
type Client struct {
	baseURL string
	tokens  client.TokenSource
	http    *http.Client
	logger  client.Logger
}

// Option customizes Client construction.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (useful for tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(l client.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a leave client rooted at baseURL, e.g.
// "http://localhost:8081/api". Tokens come from the session store.
func New(baseURL string, tokens client.TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{Timeout: client.DefaultRequestTimeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

// Validate will validate the payload before any network call.
func (p SubmitPayload) Validate() error {
	const layout = "2006-01-02"
	return validation.ValidateStruct(&p,
		validation.Field(&p.LeaveType, validation.Required),
		validation.Field(&p.StartDate, validation.Required, validation.Date(layout)),
		validation.Field(&p.EndDate, validation.Required, validation.Date(layout)),
		validation.Field(&p.Reason, validation.Required, validation.Length(1, 500)),
	)
}

// SubmitRequest files a new leave request for the current user.
func (c *Client) SubmitRequest(ctx context.Context, payload SubmitPayload) (*Request, error) {
	if err := payload.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "payload failed validation").
			WithTextCode(client.TextCodeValidation).
			WithCode(goerrors.CodeBadRequest)
	}

	var out Request
	if err := c.do(ctx, http.MethodPost, "/leave/requests", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListRequests returns the requests visible to the current user (own
// history for employees, the team's for managers).
func (c *Client) ListRequests(ctx context.Context) ([]Request, error) {
	var out []Request
	if err := c.do(ctx, http.MethodGet, "/leave/requests", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Balances returns the current user's per-type leave balances.
func (c *Client) Balances(ctx context.Context) ([]Balance, error) {
	var out []Balance
	if err := c.do(ctx, http.MethodGet, "/leave/balance", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Approve marks a request approved. Requires at least the MANAGER role
// server-side.
func (c *Client) Approve(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/leave/requests/%d/approve", id), struct{}{}, nil)
}

// Reject marks a request rejected.
func (c *Client) Reject(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/leave/requests/%d/reject", id), struct{}{}, nil)
}

// ListTypes returns the configured leave types.
func (c *Client) ListTypes(ctx context.Context) ([]Type, error) {
	var out []Type
	if err := c.do(ctx, http.MethodGet, "/admin/leave-types", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateType adds a leave type. Admin only, enforced server-side.
func (c *Client) CreateType(ctx context.Context, t Type) (*Type, error) {
	var out Type
	if err := c.do(ctx, http.MethodPost, "/admin/leave-types", t, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateType replaces a leave type's configuration.
func (c *Client) UpdateType(ctx context.Context, t Type) (*Type, error) {
	var out Type
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/admin/leave-types/%d", t.ID), t, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteType removes a leave type.
func (c *Client) DeleteType(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/leave-types/%d", id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to build request")
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "leave service unreachable").
			WithTextCode(client.TextCodeNetwork)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to read response").
			WithTextCode(client.TextCodeNetwork)
	}

	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return client.ErrUnauthorized
	case res.StatusCode >= http.StatusMultipleChoices:
		return c.serverError(method, path, res.StatusCode, raw)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "unexpected response payload").
				WithTextCode(client.TextCodeServer)
		}
	}

	return nil
}

func (c *Client) serverError(method, path string, status int, raw []byte) error {
	meta := map[string]any{
		"method": method,
		"path":   path,
		"status": status,
	}

	var body struct {
		Message string `json:"message"`
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
			meta["message"] = body.Message
		}
	}

	if c.logger != nil {
		c.logger.Error("unexpected response from %s %s: %d", method, path, status)
	}

	return goerrors.New(fmt.Sprintf("leave service error (%s %s)", method, path), goerrors.CategoryInternal).
		WithTextCode(client.TextCodeServer).
		WithMetadata(meta)
}

package client_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	client "github.com/africahr/go-leave-client"
)

// MockCredentialAPI implements client.CredentialAPI
type MockCredentialAPI struct {
	mock.Mock
}

func (m *MockCredentialAPI) Login(ctx context.Context, email, password string) (*client.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if res, ok := args.Get(0).(*client.LoginResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCredentialAPI) Register(ctx context.Context, payload client.RegisterPayload) (*client.AuthResult, error) {
	args := m.Called(ctx, payload)
	if res, ok := args.Get(0).(*client.AuthResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCredentialAPI) VerifyToken(ctx context.Context, token string) (*client.UserProfile, error) {
	args := m.Called(ctx, token)
	if res, ok := args.Get(0).(*client.UserProfile); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCredentialAPI) GenerateTwoFactorSecret(ctx context.Context, token, email string) (*client.TwoFactorSecret, error) {
	args := m.Called(ctx, token, email)
	if res, ok := args.Get(0).(*client.TwoFactorSecret); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCredentialAPI) VerifyTwoFactor(ctx context.Context, email, code string) (*client.AuthResult, error) {
	args := m.Called(ctx, email, code)
	if res, ok := args.Get(0).(*client.AuthResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCredentialAPI) EnableTwoFactor(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockCredentialAPI) DisableTwoFactor(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// MockTokenStore implements client.TokenStore
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) Load(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockTokenStore) Save(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// recordingSink collects activity events for assertions.
type recordingSink struct {
	mu     sync.Mutex
	events []client.ActivityEvent
}

func (s *recordingSink) Record(_ context.Context, event client.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) Events() []client.ActivityEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]client.ActivityEvent, len(s.events))
	copy(out, s.events)
	return out
}

func (s *recordingSink) Types() []client.ActivityEventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]client.ActivityEventType, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.EventType)
	}
	return out
}

func testUser() *client.UserProfile {
	return &client.UserProfile{
		ID:        42,
		FirstName: "Awa",
		LastName:  "Diallo",
		Email:     "awa.diallo@example.com",
		Role:      client.RoleUser,
	}
}

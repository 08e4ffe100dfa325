package client_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	client "github.com/africahr/go-leave-client"
)

func TestSessionStoreHydrateEmptySlot(t *testing.T) {
	mockAPI := &MockCredentialAPI{}
	session := client.NewSessionStore(mockAPI, &client.MemoryTokenStore{})

	require.NoError(t, session.Hydrate(context.Background()))

	snap := session.Snapshot()
	assert.True(t, snap.Hydrated)
	assert.Equal(t, client.StatusUnauthenticated, snap.Status)
	mockAPI.AssertNotCalled(t, "VerifyToken", mock.Anything, mock.Anything)
}

func TestSessionStoreHydrateValidToken(t *testing.T) {
	mockAPI := &MockCredentialAPI{}
	tokens := &client.MemoryTokenStore{}
	require.NoError(t, tokens.Save(context.Background(), "t1"))

	mockAPI.On("VerifyToken", mock.Anything, "t1").Return(testUser(), nil).Once()

	session := client.NewSessionStore(mockAPI, tokens)
	require.NoError(t, session.Hydrate(context.Background()))

	snap := session.Snapshot()
	assert.True(t, snap.Authenticated())
	assert.Equal(t, "t1", snap.Token)
	require.NotNil(t, snap.User)
	assert.Equal(t, int64(42), snap.User.ID)
	mockAPI.AssertExpectations(t)
}

func TestSessionStoreHydrateEmitsActivityEvent(t *testing.T) {
	mockAPI := &MockCredentialAPI{}
	tokens := &client.MemoryTokenStore{}
	require.NoError(t, tokens.Save(context.Background(), "t1"))

	mockAPI.On("VerifyToken", mock.Anything, "t1").Return(testUser(), nil).Once()

	sink := &recordingSink{}
	session := client.NewSessionStore(mockAPI, tokens, client.WithSessionActivitySink(sink))
	require.NoError(t, session.Hydrate(context.Background()))

	events := sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, client.ActivityEventSessionHydrated, events[0].EventType)
	assert.Equal(t, int64(42), events[0].UserID)
	assert.False(t, events[0].OccurredAt.IsZero())
}

func TestSessionStoreHydrateRejectedTokenRecoversSilently(t *testing.T) {
	mockAPI := &MockCredentialAPI{}
	tokens := &client.MemoryTokenStore{}
	require.NoError(t, tokens.Save(context.Background(), "stale"))

	mockAPI.On("VerifyToken", mock.Anything, "stale").Return(nil, client.ErrInvalidToken).Once()

	session := client.NewSessionStore(mockAPI, tokens)
	require.NoError(t, session.Hydrate(context.Background()))

	snap := session.Snapshot()
	assert.True(t, snap.Hydrated)
	assert.Equal(t, client.StatusUnauthenticated, snap.Status)

	stored, err := tokens.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored, "rejected token must be cleared from storage")
}

func TestSessionStoreHydrateNetworkFailureStaysUnresolved(t *testing.T) {
	mockAPI := &MockCredentialAPI{}
	tokens := &client.MemoryTokenStore{}
	require.NoError(t, tokens.Save(context.Background(), "t1"))

	mockAPI.On("VerifyToken", mock.Anything, "t1").Return(nil, client.ErrNetwork).Once()

	session := client.NewSessionStore(mockAPI, tokens)
	err := session.Hydrate(context.Background())
	assert.True(t, client.IsNetworkError(err))

	snap := session.Snapshot()
	assert.False(t, snap.Hydrated, "transport failure must not resolve hydration")

	stored, loadErr := tokens.Load(context.Background())
	require.NoError(t, loadErr)
	assert.Equal(t, "t1", stored, "token must survive a transient failure")
}

func TestSessionStoreCommitWritesStorageFirst(t *testing.T) {
	mockAPI := &MockCredentialAPI{}
	tokens := &MockTokenStore{}
	tokens.On("Save", mock.Anything, "t1").Return(fmt.Errorf("disk full")).Once()

	session := client.NewSessionStore(mockAPI, tokens)
	err := session.Commit(context.Background(), "t1", testUser())
	assert.Error(t, err)

	snap := session.Snapshot()
	assert.False(t, snap.Authenticated(), "memory must not claim a session storage cannot restore")
	tokens.AssertExpectations(t)
}

func TestSessionStoreCommitRequiresTokenAndUser(t *testing.T) {
	session := client.NewSessionStore(&MockCredentialAPI{}, &client.MemoryTokenStore{})

	assert.Error(t, session.Commit(context.Background(), "", testUser()))
	assert.Error(t, session.Commit(context.Background(), "t1", nil))
}

func TestSessionStoreClearResetsMemoryEvenOnStorageError(t *testing.T) {
	mockAPI := &MockCredentialAPI{}
	tokens := &MockTokenStore{}
	tokens.On("Save", mock.Anything, "t1").Return(nil).Once()
	tokens.On("Clear", mock.Anything).Return(fmt.Errorf("disk error")).Once()

	session := client.NewSessionStore(mockAPI, tokens)
	require.NoError(t, session.Commit(context.Background(), "t1", testUser()))

	err := session.Clear(context.Background())
	assert.Error(t, err)
	assert.False(t, session.Authenticated(), "UI must never stay logged in after logout")
	tokens.AssertExpectations(t)
}

func TestSessionStoreSnapshotIsDetached(t *testing.T) {
	mockAPI := &MockCredentialAPI{}
	session := client.NewSessionStore(mockAPI, &client.MemoryTokenStore{})
	require.NoError(t, session.Commit(context.Background(), "t1", testUser()))

	snap := session.Snapshot()
	snap.User.Email = "mutated@example.com"

	assert.Equal(t, "awa.diallo@example.com", session.Snapshot().User.Email)
}

func TestSessionStoreTokenSource(t *testing.T) {
	session := client.NewSessionStore(&MockCredentialAPI{}, &client.MemoryTokenStore{})

	var source client.TokenSource = session
	assert.Empty(t, source.Token())

	require.NoError(t, session.Commit(context.Background(), "t1", testUser()))
	assert.Equal(t, "t1", source.Token())
}

func TestSessionStoreTokenClaimsWithoutSession(t *testing.T) {
	session := client.NewSessionStore(&MockCredentialAPI{}, &client.MemoryTokenStore{})

	_, err := session.TokenClaims()
	assert.True(t, client.IsUnauthorized(err))
}

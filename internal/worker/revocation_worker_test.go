package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/events"
	"github.com/spec-kit/account-service/internal/worker"
)

const testSecret = "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY="

func newTokenService(t *testing.T) *auth.TokenService {
	t.Helper()
	keys, err := auth.NewKeyProvider(testSecret)
	require.NoError(t, err)
	return auth.NewTokenService(keys, auth.NewTokenBlacklist(), nil, time.Hour, 24*time.Hour)
}

func generateToken(t *testing.T, tokens *auth.TokenService) string {
	t.Helper()
	token, _, err := tokens.GenerateAccessToken("a@b.com", map[string]any{
		auth.ClaimRole:     "CUSTOMER",
		auth.ClaimUserID:   "user-1",
		auth.ClaimFullName: "Jane Doe",
	})
	require.NoError(t, err)
	return token
}

func TestRevocationWorker_RevokesEnqueuedToken(t *testing.T) {
	tokens := newTokenService(t)
	w := worker.NewRevocationWorker(tokens, nil, zap.NewNop(), 8)
	w.Start()

	token := generateToken(t, tokens)
	require.True(t, tokens.ValidateToken(token, auth.TokenKindAccess))

	require.True(t, w.Enqueue(token))
	w.Stop() // drains before returning

	assert.False(t, tokens.ValidateToken(token, auth.TokenKindAccess))
}

func TestRevocationWorker_BadTokenLoggedNotFatal(t *testing.T) {
	tokens := newTokenService(t)
	w := worker.NewRevocationWorker(tokens, nil, zap.NewNop(), 8)
	w.Start()

	require.True(t, w.Enqueue("garbage"))
	token := generateToken(t, tokens)
	require.True(t, w.Enqueue(token))
	w.Stop()

	// The malformed token is dropped; the valid one behind it still lands.
	assert.False(t, tokens.ValidateToken(token, auth.TokenKindAccess))
}

func TestRevocationWorker_EnqueueAfterStop(t *testing.T) {
	tokens := newTokenService(t)
	w := worker.NewRevocationWorker(tokens, nil, zap.NewNop(), 8)
	w.Start()
	w.Stop()

	assert.False(t, w.Enqueue(generateToken(t, tokens)))
}

func TestRevocationWorker_PublishesRevokedEvent(t *testing.T) {
	tokens := newTokenService(t)
	dispatcher := events.NewInMemoryDispatcher()

	received := make(chan events.Event, 1)
	dispatcher.Subscribe(events.EventTokenRevoked, func(_ context.Context, event events.Event) error {
		received <- event
		return nil
	})

	w := worker.NewRevocationWorker(tokens, dispatcher, zap.NewNop(), 8)
	w.Start()
	require.True(t, w.Enqueue(generateToken(t, tokens)))
	w.Stop()

	select {
	case event := <-received:
		assert.Equal(t, events.EventTokenRevoked, event.Type)
	default:
		t.Fatal("expected token_revoked event")
	}
}

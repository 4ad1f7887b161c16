package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	service := NewSessionService("test-secret", time.Hour)

	token, expiry, err := service.Issue(42, "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiry, time.Minute)

	session, err := service.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), session.UserID)
	assert.Equal(t, "alice", session.Username)
}

func TestParse_RejectsGarbage(t *testing.T) {
	service := NewSessionService("test-secret", time.Hour)

	_, err := service.Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = service.Parse("")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestParse_RejectsForeignSecret(t *testing.T) {
	issuer := NewSessionService("secret-one", time.Hour)
	verifier := NewSessionService("secret-two", time.Hour)

	token, _, err := issuer.Issue(1, "alice")
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestParse_RejectsExpired(t *testing.T) {
	service := &SessionService{secret: []byte("test-secret"), ttl: -time.Hour}

	token, _, err := service.Issue(1, "alice")
	require.NoError(t, err)

	_, err = service.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, FromContext(ctx))
	assert.False(t, IsAuthenticated(ctx))

	ctx = WithSession(ctx, &Session{UserID: 7, Username: "alice"})
	session := FromContext(ctx)
	require.NotNil(t, session)
	assert.Equal(t, uint(7), session.UserID)
	assert.True(t, IsAuthenticated(ctx))
}

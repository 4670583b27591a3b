package auth

import (
	"testing"
	"time"

	"cardbox_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testUser() *models.User {
	username := "jane"
	return &models.User{
		BaseModel:   models.BaseModel{ID: "user-1"},
		ExternalID:  "ext-1",
		Username:    &username,
		Email:       "jane@example.com",
		DisplayName: "Jane Doe",
		Role:        models.UserRoleUser,
	}
}

func TestNewTokenService_RejectsShortSecret(t *testing.T) {
	_, err := NewTokenService("too-short", time.Hour)
	assert.Error(t, err)
}

func TestIssueAndVerify_Roundtrip(t *testing.T) {
	svc, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	token, err := svc.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "ext-1", claims.ExternalID)
	assert.Equal(t, "jane", claims.Username)
	assert.Equal(t, models.UserRoleUser, claims.Role)
}

func TestVerify_RejectsTamperedToken(t *testing.T) {
	svc, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	token, err := svc.Issue(testUser())
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = svc.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestVerify_RejectsWrongSecret(t *testing.T) {
	issuer, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)
	verifier, err := NewTokenService("another-secret-of-proper-length", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestVerify_RejectsExpiredToken(t *testing.T) {
	svc := &TokenService{secret: []byte(testSecret), ttl: -time.Minute}

	token, err := svc.Issue(testUser())
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestVerify_RejectsGarbage(t *testing.T) {
	svc, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	_, err = svc.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestNewTokenService_DefaultTTL(t *testing.T) {
	svc, err := NewTokenService(testSecret, 0)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, svc.TTL())
}

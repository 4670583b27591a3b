package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cardbox_backend/internal/auth"
	"cardbox_backend/internal/identity"
	"cardbox_backend/internal/models"
	"cardbox_backend/internal/repositories"
	"cardbox_backend/internal/services"
	"cardbox_backend/internal/services/dto"
	"cardbox_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionService(t *testing.T, verifier identity.Verifier) services.SessionService {
	t.Helper()
	tokens, err := auth.NewTokenService("0123456789abcdef0123456789abcdef", time.Hour)
	require.NoError(t, err)
	return services.NewSessionService(repositories.NewUserRepository(), verifier, tokens)
}

func TestReconcile_CreatesUserOnFirstLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(t, &stubVerifier{})

	claims := &identity.Claims{
		Subject: "ext-100",
		Email:   "new@example.com",
		Name:    "New Person",
		Picture: "https://img.example.com/p.png",
	}

	user, err := svc.Reconcile(context.Background(), db, claims, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "ext-100", user.ExternalID)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, "New Person", user.DisplayName)
	assert.Equal(t, "https://img.example.com/p.png", user.AvatarURL)
	assert.Nil(t, user.Username, "reconciliation must never write username")
	assert.Equal(t, models.UserRoleUser, user.Role)
	assert.Equal(t, "free", user.Plan)
}

func TestReconcile_PlaceholderNameWhenProviderOmitsIt(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(t, &stubVerifier{})

	user, err := svc.Reconcile(context.Background(), db, &identity.Claims{Subject: "ext-101"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "New Member", user.DisplayName)
}

func TestReconcile_RefreshesProviderFieldsButNeverNullsThem(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(t, &stubVerifier{})

	_, err := svc.Reconcile(context.Background(), db, &identity.Claims{
		Subject: "ext-102",
		Email:   "old@example.com",
		Name:    "Old Name",
	}, nil)
	require.NoError(t, err)

	// Second login: new name, missing email. The name refreshes, the
	// stored email survives.
	user, err := svc.Reconcile(context.Background(), db, &identity.Claims{
		Subject: "ext-102",
		Name:    "New Name",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "New Name", user.DisplayName)
	assert.Equal(t, "old@example.com", user.Email)
}

func TestReconcile_SensitiveFieldsAreFillOnce(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(t, &stubVerifier{})

	user, err := svc.Reconcile(context.Background(), db, &identity.Claims{Subject: "ext-103"}, &dto.SensitiveClaims{
		Phone:   "+111",
		Country: "Kazakhstan",
	})
	require.NoError(t, err)
	assert.Equal(t, "+111", user.Phone)
	assert.Equal(t, "Kazakhstan", user.Country)

	// A later login must not overwrite the stored values.
	user, err = svc.Reconcile(context.Background(), db, &identity.Claims{Subject: "ext-103"}, &dto.SensitiveClaims{
		Phone:    "+999",
		Country:  "Elsewhere",
		Religion: "none",
	})
	require.NoError(t, err)
	assert.Equal(t, "+111", user.Phone)
	assert.Equal(t, "Kazakhstan", user.Country)
	assert.Equal(t, "none", user.Religion, "still-empty fields do fill in")
}

func TestReconcile_LeavesUsernameAloneOnRelogin(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(t, &stubVerifier{})

	user, err := svc.Reconcile(context.Background(), db, &identity.Claims{Subject: "ext-104", Name: "N"}, nil)
	require.NoError(t, err)

	username := "claimed-name"
	user.Username = &username
	require.NoError(t, db.Save(user).Error)

	user, err = svc.Reconcile(context.Background(), db, &identity.Claims{Subject: "ext-104", Name: "N2"}, nil)
	require.NoError(t, err)
	require.NotNil(t, user.Username)
	assert.Equal(t, "claimed-name", *user.Username)
}

func TestLogin_InvalidTokenIsUnauthorized(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(t, &stubVerifier{err: errors.New("bad token")})

	_, _, err := svc.Login(context.Background(), db, &dto.LoginRequest{Token: "whatever"})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 401, appErr.HTTPCode)
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	db := newTestDB(t)
	tokens, err := auth.NewTokenService("0123456789abcdef0123456789abcdef", time.Hour)
	require.NoError(t, err)
	svc := services.NewSessionService(repositories.NewUserRepository(), &stubVerifier{claims: &identity.Claims{
		Subject: "ext-105",
		Email:   "login@example.com",
		Name:    "Login User",
	}}, tokens)

	user, token, err := svc.Login(context.Background(), db, &dto.LoginRequest{Token: "provider-token"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID())
	assert.Equal(t, "ext-105", claims.ExternalID)
}

func TestMe_ReturnsBillingSummary(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(t, &stubVerifier{})

	user := createUser(t, db, "ext-106", "Me User")
	periodEnd := time.Now().Add(720 * time.Hour).UTC().Truncate(time.Second)
	user.Plan = "pro"
	user.SubscriptionStatus = "active"
	user.CurrentPeriodEnd = &periodEnd
	require.NoError(t, db.Save(user).Error)

	me, err := svc.Me(context.Background(), db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "pro", me.Plan)
	assert.Equal(t, "active", me.SubscriptionStatus)
	require.NotNil(t, me.CurrentPeriodEnd)
	assert.True(t, periodEnd.Equal(me.CurrentPeriodEnd.UTC()))
}

func TestMe_MissingUserIsUnauthorized(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(t, &stubVerifier{})

	_, err := svc.Me(context.Background(), db, "no-such-user")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 401, appErr.HTTPCode)
}

package services_test

import (
	"context"
	"testing"

	"cardbox_backend/internal/repositories"
	"cardbox_backend/internal/services"
	"cardbox_backend/internal/services/dto"
	"cardbox_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestUpdateProfile_SetsUsername(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewUserService(repositories.NewUserRepository())
	user := createUser(t, db, "ext-200", "Profile User")

	me, err := svc.UpdateProfile(context.Background(), db, user.ID, &dto.UpdateProfileRequest{
		Username:    strPtr("profile-user"),
		DisplayName: strPtr("Renamed"),
		ShowEmail:   boolPtr(true),
	})
	require.NoError(t, err)
	require.NotNil(t, me.Username)
	assert.Equal(t, "profile-user", *me.Username)
	assert.Equal(t, "Renamed", me.DisplayName)
	assert.True(t, me.ShowEmail)
}

func TestUpdateProfile_DuplicateUsernameConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewUserService(repositories.NewUserRepository())

	first := createUser(t, db, "ext-201", "First")
	second := createUser(t, db, "ext-202", "Second")

	_, err := svc.UpdateProfile(context.Background(), db, first.ID, &dto.UpdateProfileRequest{
		Username: strPtr("taken-name"),
	})
	require.NoError(t, err)

	_, err = svc.UpdateProfile(context.Background(), db, second.ID, &dto.UpdateProfileRequest{
		Username: strPtr("taken-name"),
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.HTTPCode)
}

func TestUpdateProfile_AbsentFieldsAreNoOps(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewUserService(repositories.NewUserRepository())
	user := createUser(t, db, "ext-203", "Keep Me")

	me, err := svc.UpdateProfile(context.Background(), db, user.ID, &dto.UpdateProfileRequest{
		Phone: strPtr("+777"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Keep Me", me.DisplayName)
	assert.Equal(t, "+777", me.Phone)
}

func TestGetPublicProfile_GatesValuesByFlags(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewUserService(repositories.NewUserRepository())

	user := createUser(t, db, "ext-204", "Public Person")
	username := "public-person"
	user.Username = &username
	user.Phone = "+555"
	user.Religion = "none"
	user.ShowEmail = true
	user.ShowPhone = false
	user.ShowReligion = true
	require.NoError(t, db.Save(user).Error)

	profile, err := svc.GetPublicProfile(context.Background(), db, "public-person")
	require.NoError(t, err)

	require.NotNil(t, profile.Email, "flagged-on value is visible")
	assert.Equal(t, user.Email, *profile.Email)
	assert.Nil(t, profile.Phone, "flagged-off value is withheld")
	require.NotNil(t, profile.Religion)
	assert.Equal(t, "none", *profile.Religion)
	// Flags themselves are always visible.
	assert.True(t, profile.ShowEmail)
	assert.False(t, profile.ShowPhone)
	assert.True(t, profile.ShowReligion)
}

func TestGetPublicProfile_UnknownUsernameIsNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewUserService(repositories.NewUserRepository())

	_, err := svc.GetPublicProfile(context.Background(), db, "nobody")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.HTTPCode)
}

func TestListUsers_Paginates(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewUserService(repositories.NewUserRepository())

	for i := 0; i < 5; i++ {
		createUser(t, db, "ext-21"+string(rune('0'+i)), "User")
	}

	page, err := svc.ListUsers(context.Background(), db, &dto.OffsetQuery{Page: 1, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
	assert.EqualValues(t, 5, page.Total)

	page, err = svc.ListUsers(context.Background(), db, &dto.OffsetQuery{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
}

func TestRoleOf_ReadsFromStore(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewUserService(repositories.NewUserRepository())
	user := createUser(t, db, "ext-220", "Admin Soon")

	role, err := svc.RoleOf(context.Background(), db, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, "user", role)

	require.NoError(t, db.Model(user).Update("role", "admin").Error)

	role, err = svc.RoleOf(context.Background(), db, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, "admin", role)
}

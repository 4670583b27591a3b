package services_test

import (
	"context"
	"fmt"
	"testing"

	"cardbox_backend/database"
	"cardbox_backend/internal/identity"
	"cardbox_backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A named shared-cache database keeps all pooled connections on the
	// same in-memory store, isolated per test.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.AllModels()...))
	return db
}

func createUser(t *testing.T, db *gorm.DB, externalID, displayName string) *models.User {
	t.Helper()
	user := &models.User{
		ExternalID:  externalID,
		Email:       externalID + "@example.com",
		DisplayName: displayName,
		Role:        models.UserRoleUser,
		Plan:        "free",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// stubVerifier satisfies identity.Verifier without a provider round trip.
type stubVerifier struct {
	claims *identity.Claims
	err    error
}

func (v *stubVerifier) Verify(ctx context.Context, rawToken string) (*identity.Claims, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}

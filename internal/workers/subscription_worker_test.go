package workers_test

import (
	"fmt"
	"testing"
	"time"

	"cardbox_backend/database"
	"cardbox_backend/internal/models"
	"cardbox_backend/internal/workers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.AllModels()...))
	return db
}

func seedSubscriber(t *testing.T, db *gorm.DB, externalID, status string, periodEnd time.Time) *models.User {
	t.Helper()
	user := &models.User{
		ExternalID:         externalID,
		DisplayName:        "Subscriber",
		Plan:               "pro",
		SubscriptionStatus: status,
		CurrentPeriodEnd:   &periodEnd,
	}
	require.NoError(t, db.Create(user).Error)

	sub := &models.Subscription{
		StripeSubscriptionID: "sub_" + externalID,
		UserID:               user.ID,
		Plan:                 "pro",
		Status:               status,
		CurrentPeriodEnd:     &periodEnd,
	}
	require.NoError(t, db.Create(sub).Error)
	return user
}

func TestSweepOnce_DemotesLapsedSubscribers(t *testing.T) {
	db := newTestDB(t)
	now := time.Now().UTC()

	lapsed := seedSubscriber(t, db, "ext-800", "active", now.Add(-time.Hour))
	current := seedSubscriber(t, db, "ext-801", "active", now.Add(24*time.Hour))
	canceled := seedSubscriber(t, db, "ext-802", "canceled", now.Add(-time.Hour))

	workers.NewSubscriptionWorker(db).SweepOnce(now)

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", lapsed.ID).Error)
	assert.Equal(t, "free", user.Plan)
	assert.Equal(t, "expired", user.SubscriptionStatus)

	user = models.User{}
	require.NoError(t, db.First(&user, "id = ?", current.ID).Error)
	assert.Equal(t, "pro", user.Plan)
	assert.Equal(t, "active", user.SubscriptionStatus)

	// Non-active rows are out of scope even when the period has ended.
	user = models.User{}
	require.NoError(t, db.First(&user, "id = ?", canceled.ID).Error)
	assert.Equal(t, "pro", user.Plan)
	assert.Equal(t, "canceled", user.SubscriptionStatus)

	var sub models.Subscription
	require.NoError(t, db.First(&sub, "user_id = ?", lapsed.ID).Error)
	assert.Equal(t, "expired", sub.Status)

	sub = models.Subscription{}
	require.NoError(t, db.First(&sub, "user_id = ?", current.ID).Error)
	assert.Equal(t, "active", sub.Status)
}

func TestSweepOnce_IsIdempotent(t *testing.T) {
	db := newTestDB(t)
	now := time.Now().UTC()

	lapsed := seedSubscriber(t, db, "ext-803", "active", now.Add(-time.Hour))

	worker := workers.NewSubscriptionWorker(db)
	worker.SweepOnce(now)
	worker.SweepOnce(now)

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", lapsed.ID).Error)
	assert.Equal(t, "free", user.Plan)
	assert.Equal(t, "expired", user.SubscriptionStatus)
}

package repositories

import (
	"errors"

	"cardbox_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

type SubscriptionRepository interface {
	Upsert(db *gorm.DB, sub *models.Subscription) error
	FindByStripeID(db *gorm.DB, stripeSubscriptionID string) (*models.Subscription, error)
	FindByUser(db *gorm.DB, userID string) (*models.Subscription, error)
}

type subscriptionRepository struct{}

func NewSubscriptionRepository() SubscriptionRepository {
	return &subscriptionRepository{}
}

// Upsert writes the subscription keyed by the provider's subscription id.
// Replaying the same checkout finalization therefore converges on one row
// instead of inserting duplicates.
func (r *subscriptionRepository) Upsert(db *gorm.DB, sub *models.Subscription) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "stripe_subscription_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id", "stripe_price_id", "plan", "status", "current_period_end", "updated_at",
		}),
	}).Create(sub).Error
}

func (r *subscriptionRepository) FindByStripeID(db *gorm.DB, stripeSubscriptionID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := db.Where("stripe_subscription_id = ?", stripeSubscriptionID).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) FindByUser(db *gorm.DB, userID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := db.Where("user_id = ?", userID).Order("created_at DESC").First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

package models

import "time"

// Subscription mirrors the billing provider's subscription object. It is
// keyed by the provider's subscription id so checkout finalization can be
// replayed safely: the same external id always converges on one row.
type Subscription struct {
	BaseModel
	StripeSubscriptionID string     `gorm:"uniqueIndex;not null" json:"stripeSubscriptionId"`
	UserID               string     `gorm:"not null;index" json:"userId"`
	StripePriceID        string     `json:"stripePriceId"`
	Plan                 string     `json:"plan"`
	Status               string     `json:"status"` // verbatim provider status string
	CurrentPeriodEnd     *time.Time `json:"currentPeriodEnd"`
}

package models

import "time"

// User is the identity anchor. ExternalID links the row to the identity
// provider account; Username is owned exclusively by the profile-update
// path and is never written during login reconciliation.
type User struct {
	BaseModel
	ExternalID  string   `gorm:"uniqueIndex;not null" json:"-"`
	Username    *string  `gorm:"uniqueIndex" json:"username"`
	Email       string   `gorm:"index" json:"email"`
	DisplayName string   `json:"displayName"`
	AvatarURL   string   `json:"avatarUrl"`
	BannerURL   string   `json:"bannerUrl"`
	Role        UserRole `gorm:"type:varchar(20);default:'user'" json:"role"`

	// Fill-once fields: written by reconciliation only while empty,
	// afterwards owned by the user.
	Phone       string     `json:"phone"`
	Religion    string     `json:"religion"`
	Country     string     `json:"country"`
	DateOfBirth *time.Time `json:"dateOfBirth"`

	// Privacy flags gate the public projection of the matching value.
	ShowEmail       bool `gorm:"default:false" json:"showEmail"`
	ShowPhone       bool `gorm:"default:false" json:"showPhone"`
	ShowReligion    bool `gorm:"default:false" json:"showReligion"`
	ShowCountry     bool `gorm:"default:false" json:"showCountry"`
	ShowDateOfBirth bool `gorm:"default:false" json:"showDateOfBirth"`

	// Billing projection.
	StripeCustomerID   *string    `gorm:"uniqueIndex" json:"-"`
	Plan               string     `gorm:"default:'free'" json:"plan"`
	SubscriptionStatus string     `json:"subscriptionStatus"`
	CurrentPeriodEnd   *time.Time `json:"currentPeriodEnd"`
}

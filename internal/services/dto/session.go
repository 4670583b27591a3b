package dto

import (
	"time"

	"cardbox_backend/internal/models"
)

// SensitiveClaims are caller-supplied opt-in fields forwarded alongside
// the identity token at login. They are fill-once: reconciliation writes
// them only while the stored value is empty.
type SensitiveClaims struct {
	Phone    string `json:"phone" validate:"omitempty,max=32"`
	Religion string `json:"religion" validate:"omitempty,max=64"`
	Country  string `json:"country" validate:"omitempty,max=64"`
}

type LoginRequest struct {
	Token     string           `json:"token" validate:"required"`
	Sensitive *SensitiveClaims `json:"sensitive" validate:"omitempty"`
}

// MeResponse is the minimal identity + billing summary for GET /session/me.
type MeResponse struct {
	ID                 string          `json:"id"`
	Username           *string         `json:"username"`
	Email              string          `json:"email"`
	DisplayName        string          `json:"displayName"`
	AvatarURL          string          `json:"avatarUrl"`
	BannerURL          string          `json:"bannerUrl"`
	Role               models.UserRole `json:"role"`
	Phone              string          `json:"phone"`
	Religion           string          `json:"religion"`
	Country            string          `json:"country"`
	DateOfBirth        *time.Time      `json:"dateOfBirth"`
	ShowEmail          bool            `json:"showEmail"`
	ShowPhone          bool            `json:"showPhone"`
	ShowReligion       bool            `json:"showReligion"`
	ShowCountry        bool            `json:"showCountry"`
	ShowDateOfBirth    bool            `json:"showDateOfBirth"`
	Plan               string          `json:"plan"`
	SubscriptionStatus string          `json:"subscriptionStatus"`
	CurrentPeriodEnd   *time.Time      `json:"currentPeriodEnd"`
}

func NewMeResponse(user *models.User) *MeResponse {
	return &MeResponse{
		ID:                 user.ID,
		Username:           user.Username,
		Email:              user.Email,
		DisplayName:        user.DisplayName,
		AvatarURL:          user.AvatarURL,
		BannerURL:          user.BannerURL,
		Role:               user.Role,
		Phone:              user.Phone,
		Religion:           user.Religion,
		Country:            user.Country,
		DateOfBirth:        user.DateOfBirth,
		ShowEmail:          user.ShowEmail,
		ShowPhone:          user.ShowPhone,
		ShowReligion:       user.ShowReligion,
		ShowCountry:        user.ShowCountry,
		ShowDateOfBirth:    user.ShowDateOfBirth,
		Plan:               user.Plan,
		SubscriptionStatus: user.SubscriptionStatus,
		CurrentPeriodEnd:   user.CurrentPeriodEnd,
	}
}

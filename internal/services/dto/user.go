package dto

import (
	"time"

	"cardbox_backend/internal/models"
)

// UpdateProfileRequest is the dedicated profile path - the only writer of
// username. Pointer fields distinguish "absent" (no-op) from an explicit
// value.
type UpdateProfileRequest struct {
	Username        *string    `json:"username" validate:"omitempty,is-username"`
	DisplayName     *string    `json:"displayName" validate:"omitempty,min=1,max=100"`
	BannerURL       *string    `json:"bannerUrl" validate:"omitempty,url"`
	Phone           *string    `json:"phone" validate:"omitempty,max=32"`
	Religion        *string    `json:"religion" validate:"omitempty,max=64"`
	Country         *string    `json:"country" validate:"omitempty,max=64"`
	DateOfBirth     *time.Time `json:"dateOfBirth"`
	ShowEmail       *bool      `json:"showEmail"`
	ShowPhone       *bool      `json:"showPhone"`
	ShowReligion    *bool      `json:"showReligion"`
	ShowCountry     *bool      `json:"showCountry"`
	ShowDateOfBirth *bool      `json:"showDateOfBirth"`
}

// PublicProfileResponse projects a user for anonymous viewers: the
// privacy flags are always visible, the gated values only when allowed.
type PublicProfileResponse struct {
	Username        *string    `json:"username"`
	DisplayName     string     `json:"displayName"`
	AvatarURL       string     `json:"avatarUrl"`
	BannerURL       string     `json:"bannerUrl"`
	Email           *string    `json:"email"`
	Phone           *string    `json:"phone"`
	Religion        *string    `json:"religion"`
	Country         *string    `json:"country"`
	DateOfBirth     *time.Time `json:"dateOfBirth"`
	ShowEmail       bool       `json:"showEmail"`
	ShowPhone       bool       `json:"showPhone"`
	ShowReligion    bool       `json:"showReligion"`
	ShowCountry     bool       `json:"showCountry"`
	ShowDateOfBirth bool       `json:"showDateOfBirth"`
}

func NewPublicProfileResponse(user *models.User) *PublicProfileResponse {
	resp := &PublicProfileResponse{
		Username:        user.Username,
		DisplayName:     user.DisplayName,
		AvatarURL:       user.AvatarURL,
		BannerURL:       user.BannerURL,
		ShowEmail:       user.ShowEmail,
		ShowPhone:       user.ShowPhone,
		ShowReligion:    user.ShowReligion,
		ShowCountry:     user.ShowCountry,
		ShowDateOfBirth: user.ShowDateOfBirth,
	}
	if user.ShowEmail {
		resp.Email = &user.Email
	}
	if user.ShowPhone {
		resp.Phone = &user.Phone
	}
	if user.ShowReligion {
		resp.Religion = &user.Religion
	}
	if user.ShowCountry {
		resp.Country = &user.Country
	}
	if user.ShowDateOfBirth {
		resp.DateOfBirth = user.DateOfBirth
	}
	return resp
}

// AdminUserResponse is the admin listing row.
type AdminUserResponse struct {
	ID                 string          `json:"id"`
	Username           *string         `json:"username"`
	Email              string          `json:"email"`
	DisplayName        string          `json:"displayName"`
	Role               models.UserRole `json:"role"`
	Plan               string          `json:"plan"`
	SubscriptionStatus string          `json:"subscriptionStatus"`
	CreatedAt          time.Time       `json:"createdAt"`
}

func NewAdminUserResponse(user *models.User) AdminUserResponse {
	return AdminUserResponse{
		ID:                 user.ID,
		Username:           user.Username,
		Email:              user.Email,
		DisplayName:        user.DisplayName,
		Role:               user.Role,
		Plan:               user.Plan,
		SubscriptionStatus: user.SubscriptionStatus,
		CreatedAt:          user.CreatedAt,
	}
}

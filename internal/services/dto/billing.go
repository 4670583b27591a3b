package dto

import "time"

type CheckoutRequest struct {
	Plan string `json:"plan" validate:"required,is-plan"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

type PortalResponse struct {
	URL string `json:"url"`
}

type FinalizeQuery struct {
	SessionID string `form:"session_id" json:"session_id" validate:"required"`
}

// FinalizeResponse reports the reconciled local state after a checkout.
// Completed is false when the session had no subscription attached.
type FinalizeResponse struct {
	Completed        bool       `json:"completed"`
	Plan             string     `json:"plan,omitempty"`
	Status           string     `json:"status,omitempty"`
	CurrentPeriodEnd *time.Time `json:"currentPeriodEnd,omitempty"`
}

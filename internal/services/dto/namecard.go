package dto

import (
	"time"

	"cardbox_backend/internal/models"
)

type CardImageInput struct {
	URL       string `json:"url" validate:"required,url"`
	SortOrder int    `json:"sortOrder" validate:"omitempty,min=0"`
}

type CardLinkInput struct {
	Platform  string `json:"platform" validate:"omitempty,max=40"`
	URL       string `json:"url" validate:"required,url"`
	Label     string `json:"label" validate:"omitempty,max=80"`
	SortOrder int    `json:"sortOrder" validate:"omitempty,min=0"`
}

// CreateCardRequest: slug is caller-chosen for name cards; when present
// and already taken the create fails with a conflict instead of being
// auto-suffixed.
type CreateCardRequest struct {
	Slug           *string          `json:"slug" validate:"omitempty,min=1,max=60"`
	DisplayName    string           `json:"displayName" validate:"required,min=1,max=100"`
	Title          string           `json:"title" validate:"omitempty,max=120"`
	Bio            string           `json:"bio" validate:"omitempty,max=2000"`
	Status         string           `json:"status" validate:"omitempty,is-publish-status"`
	Phone          string           `json:"phone" validate:"omitempty,max=32"`
	ShowPhone      bool             `json:"showPhone"`
	Company        string           `json:"company" validate:"omitempty,max=100"`
	ShowCompany    bool             `json:"showCompany"`
	University     string           `json:"university" validate:"omitempty,max=100"`
	ShowUniversity bool             `json:"showUniversity"`
	Religion       string           `json:"religion" validate:"omitempty,max=64"`
	ShowReligion   bool             `json:"showReligion"`
	Country        string           `json:"country" validate:"omitempty,max=64"`
	ShowCountry    bool             `json:"showCountry"`
	Images         []CardImageInput `json:"images" validate:"omitempty,max=20,dive"`
	Links          []CardLinkInput  `json:"links" validate:"omitempty,max=20,dive"`
}

// UpdateCardRequest: nil = field absent = no-op. A present child
// collection replaces the stored collection wholesale.
type UpdateCardRequest struct {
	Slug           *string           `json:"slug" validate:"omitempty,min=1,max=60"`
	DisplayName    *string           `json:"displayName" validate:"omitempty,min=1,max=100"`
	Title          *string           `json:"title" validate:"omitempty,max=120"`
	Bio            *string           `json:"bio" validate:"omitempty,max=2000"`
	Status         *string           `json:"status" validate:"omitempty,is-publish-status"`
	Phone          *string           `json:"phone" validate:"omitempty,max=32"`
	ShowPhone      *bool             `json:"showPhone"`
	Company        *string           `json:"company" validate:"omitempty,max=100"`
	ShowCompany    *bool             `json:"showCompany"`
	University     *string           `json:"university" validate:"omitempty,max=100"`
	ShowUniversity *bool             `json:"showUniversity"`
	Religion       *string           `json:"religion" validate:"omitempty,max=64"`
	ShowReligion   *bool             `json:"showReligion"`
	Country        *string           `json:"country" validate:"omitempty,max=64"`
	ShowCountry    *bool             `json:"showCountry"`
	Images         *[]CardImageInput `json:"images" validate:"omitempty,max=20,dive"`
	Links          *[]CardLinkInput  `json:"links" validate:"omitempty,max=20,dive"`
}

// CardView is the serialized name card. Sensitive values are pointers:
// the owner view always carries them, the public view carries them only
// when the matching flag is set. Flags themselves are always present.
type CardView struct {
	ID             string               `json:"id"`
	Slug           string               `json:"slug"`
	DisplayName    string               `json:"displayName"`
	Title          string               `json:"title"`
	Bio            string               `json:"bio"`
	Status         models.PublishStatus `json:"status"`
	PublishedAt    *time.Time           `json:"publishedAt"`
	Phone          *string              `json:"phone"`
	ShowPhone      bool                 `json:"showPhone"`
	Company        *string              `json:"company"`
	ShowCompany    bool                 `json:"showCompany"`
	University     *string              `json:"university"`
	ShowUniversity bool                 `json:"showUniversity"`
	Religion       *string              `json:"religion"`
	ShowReligion   bool                 `json:"showReligion"`
	Country        *string              `json:"country"`
	ShowCountry    bool                 `json:"showCountry"`
	Images         []models.CardImage   `json:"images"`
	Links          []models.CardLink    `json:"links"`
	IsOwner        bool                 `json:"isOwner"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

// NewCardView builds the projection. ownerView bypasses the visibility
// flags; isOwner is reported separately so an owner viewing their own
// public page can be offered an edit affordance.
func NewCardView(card *models.DigitalNameCard, ownerView, isOwner bool) *CardView {
	view := &CardView{
		ID:             card.ID,
		Slug:           card.Slug,
		DisplayName:    card.DisplayName,
		Title:          card.Title,
		Bio:            card.Bio,
		Status:         card.Status,
		PublishedAt:    card.PublishedAt,
		ShowPhone:      card.ShowPhone,
		ShowCompany:    card.ShowCompany,
		ShowUniversity: card.ShowUniversity,
		ShowReligion:   card.ShowReligion,
		ShowCountry:    card.ShowCountry,
		Images:         card.Images,
		Links:          card.Links,
		IsOwner:        isOwner,
		CreatedAt:      card.CreatedAt,
		UpdatedAt:      card.UpdatedAt,
	}
	if view.Images == nil {
		view.Images = []models.CardImage{}
	}
	if view.Links == nil {
		view.Links = []models.CardLink{}
	}

	view.Phone = gate(card.Phone, card.ShowPhone, ownerView)
	view.Company = gate(card.Company, card.ShowCompany, ownerView)
	view.University = gate(card.University, card.ShowUniversity, ownerView)
	view.Religion = gate(card.Religion, card.ShowReligion, ownerView)
	view.Country = gate(card.Country, card.ShowCountry, ownerView)
	return view
}

// gate returns the value for the owner or when the flag allows it,
// otherwise nil.
func gate(value string, show, ownerView bool) *string {
	if ownerView || show {
		return &value
	}
	return nil
}

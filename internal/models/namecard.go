package models

import "time"

// DigitalNameCard is an owned, publishable, slugged resource. The slug is
// caller-chosen for name cards, so an explicit duplicate is a conflict
// rather than an auto-suffix.
type DigitalNameCard struct {
	BaseModel
	UserID      string        `gorm:"not null;index" json:"userId"`
	Slug        string        `gorm:"uniqueIndex;not null" json:"slug"`
	DisplayName string        `gorm:"not null" json:"displayName"`
	Title       string        `json:"title"`
	Bio         string        `json:"bio"`
	Status      PublishStatus `gorm:"type:varchar(20);default:'draft'" json:"status"`
	PublishedAt *time.Time    `json:"publishedAt"`

	// Sensitive value / visibility-flag pairs.
	Phone          string `json:"phone"`
	ShowPhone      bool   `gorm:"default:false" json:"showPhone"`
	Company        string `json:"company"`
	ShowCompany    bool   `gorm:"default:false" json:"showCompany"`
	University     string `json:"university"`
	ShowUniversity bool   `gorm:"default:false" json:"showUniversity"`
	Religion       string `json:"religion"`
	ShowReligion   bool   `gorm:"default:false" json:"showReligion"`
	Country        string `json:"country"`
	ShowCountry    bool   `gorm:"default:false" json:"showCountry"`

	Images []CardImage `gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE" json:"images"`
	Links  []CardLink  `gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE" json:"links"`
}

type CardImage struct {
	BaseModel
	CardID    string `gorm:"not null;index" json:"cardId"`
	URL       string `gorm:"not null" json:"url"`
	SortOrder int    `gorm:"default:0" json:"sortOrder"`
}

type CardLink struct {
	BaseModel
	CardID    string `gorm:"not null;index" json:"cardId"`
	Platform  string `json:"platform"`
	URL       string `gorm:"not null" json:"url"`
	Label     string `json:"label"`
	SortOrder int    `gorm:"default:0" json:"sortOrder"`
}

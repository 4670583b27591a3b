package models

import "time"

// Portfolio is the three-state variant of the owned resource pattern:
// draft -> private -> published.
type Portfolio struct {
	BaseModel
	UserID      string        `gorm:"not null;index" json:"userId"`
	Slug        string        `gorm:"uniqueIndex;not null" json:"slug"`
	Title       string        `gorm:"not null" json:"title"`
	About       string        `json:"about"`
	Status      PublishStatus `gorm:"type:varchar(20);default:'draft'" json:"status"`
	PublishedAt *time.Time    `json:"publishedAt"`

	Projects []PortfolioProject `gorm:"foreignKey:PortfolioID;constraint:OnDelete:CASCADE" json:"projects"`
}

type PortfolioProject struct {
	BaseModel
	PortfolioID string `gorm:"not null;index" json:"portfolioId"`
	Title       string `gorm:"not null" json:"title"`
	Summary     string `json:"summary"`
	URL         string `json:"url"`
	SortOrder   int    `gorm:"default:0" json:"sortOrder"`

	Images []ProjectImage `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"images"`
	Links  []ProjectLink  `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"links"`
}

type ProjectImage struct {
	BaseModel
	ProjectID string `gorm:"not null;index" json:"projectId"`
	URL       string `gorm:"not null" json:"url"`
	SortOrder int    `gorm:"default:0" json:"sortOrder"`
}

type ProjectLink struct {
	BaseModel
	ProjectID string `gorm:"not null;index" json:"projectId"`
	Platform  string `json:"platform"`
	URL       string `gorm:"not null" json:"url"`
	SortOrder int    `gorm:"default:0" json:"sortOrder"`
}

package models

import "time"

// Challenge is an owned resource that additionally accepts public
// submissions while published and open. SubmissionCounter is the source
// of submission order values; it only ever grows, so withdrawn orders are
// never reissued.
type Challenge struct {
	BaseModel
	UserID            string        `gorm:"not null;index" json:"userId"`
	Slug              string        `gorm:"uniqueIndex;not null" json:"slug"`
	Title             string        `gorm:"not null" json:"title"`
	Brief             string        `json:"brief"`
	Rules             string        `json:"rules"`
	Status            PublishStatus `gorm:"type:varchar(20);default:'draft'" json:"status"`
	PublishedAt       *time.Time    `json:"publishedAt"`
	EntryState        EntryState    `gorm:"type:varchar(20);default:'open'" json:"entryState"`
	Deadline          *time.Time    `json:"deadline"`
	SubmissionCounter int64         `gorm:"default:0" json:"-"`

	Prizes []ChallengePrize `gorm:"foreignKey:ChallengeID;constraint:OnDelete:CASCADE" json:"prizes"`
}

type ChallengePrize struct {
	BaseModel
	ChallengeID string `gorm:"not null;index" json:"challengeId"`
	Rank        int    `gorm:"default:1" json:"rank"`
	Title       string `gorm:"not null" json:"title"`
	Amount      string `json:"amount"`
}

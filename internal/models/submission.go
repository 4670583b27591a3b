package models

import "gorm.io/datatypes"

// Submission is a public entry into a challenge. The submitter's display
// name, phone and public links are snapshotted at submission time rather
// than joined live, so later profile edits do not rewrite history.
//
// The (challenge, submitter) unique index is the authoritative guard for
// the one-submission-per-user rule.
type Submission struct {
	BaseModel
	ChallengeID string `gorm:"not null;index;uniqueIndex:idx_submissions_challenge_user" json:"challengeId"`
	UserID      string `gorm:"not null;index;uniqueIndex:idx_submissions_challenge_user" json:"userId"`

	Platform string `json:"platform"`
	EntryURL string `gorm:"not null" json:"entryUrl"`
	MediaURL string `json:"mediaUrl"`
	Notes    string `json:"notes"`

	SubmissionOrder int64            `gorm:"not null" json:"submissionOrder"`
	Status          SubmissionStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`

	// Snapshot of the submitter captured at insert time.
	SubmitterName  string         `json:"submitterName"`
	SubmitterPhone string         `json:"submitterPhone"`
	SubmitterLinks datatypes.JSON `json:"submitterLinks"`
}

package dto

import "cardbox_backend/internal/models"

type SubmitRequest struct {
	Platform string `json:"platform" validate:"omitempty,max=40"`
	EntryURL string `json:"entryUrl" validate:"required,url"`
	MediaURL string `json:"mediaUrl" validate:"omitempty,url"`
	Notes    string `json:"notes" validate:"omitempty,max=2000"`
}

type SubmissionStatusRequest struct {
	Status string `json:"status" validate:"required,is-submission-status"`
}

// SubmissionListQuery: public callers page through all submissions;
// mine=1 switches to the caller's single row regardless of pagination.
type SubmissionListQuery struct {
	OffsetQuery
	Mine bool `form:"mine" json:"mine"`
}

// SubmissionView includes the identity snapshot taken at submission
// time, not the submitter's live profile.
type SubmissionView struct {
	models.Submission
}

func NewSubmissionView(submission *models.Submission) *SubmissionView {
	return &SubmissionView{Submission: *submission}
}

func NewSubmissionViews(submissions []models.Submission) []SubmissionView {
	views := make([]SubmissionView, 0, len(submissions))
	for i := range submissions {
		views = append(views, SubmissionView{Submission: submissions[i]})
	}
	return views
}

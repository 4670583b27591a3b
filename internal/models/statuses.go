package models

type UserRole string
type PublishStatus string
type EntryState string
type SubmissionStatus string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"

	PublishStatusDraft     PublishStatus = "draft"
	PublishStatusPrivate   PublishStatus = "private"
	PublishStatusPublished PublishStatus = "published"

	EntryStateOpen   EntryState = "open"
	EntryStateClosed EntryState = "closed"

	SubmissionStatusPending  SubmissionStatus = "pending"
	SubmissionStatusApproved SubmissionStatus = "approved"
	SubmissionStatusRejected SubmissionStatus = "rejected"
	SubmissionStatusWinner   SubmissionStatus = "winner"
)

// PublishStatusesFor returns the states a resource type may occupy.
// Only portfolios carry the intermediate "private" state; name cards and
// challenges are two-state.
func PublishStatusesFor(resource string) []PublishStatus {
	if resource == "portfolio" {
		return []PublishStatus{PublishStatusDraft, PublishStatusPrivate, PublishStatusPublished}
	}
	return []PublishStatus{PublishStatusDraft, PublishStatusPublished}
}

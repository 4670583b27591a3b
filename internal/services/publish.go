package services

import (
	"fmt"
	"net/http"
	"time"

	"cardbox_backend/internal/models"
	"cardbox_backend/pkg/apperrors"
)

// applyPublishTransition returns the publishedAt value after moving from
// prev to next:
//   - entering published for the first time stamps now;
//   - staying published keeps the original stamp;
//   - leaving published clears it, so a later re-publish is a fresh
//     first publish with a new stamp.
func applyPublishTransition(prev, next models.PublishStatus, publishedAt *time.Time, now time.Time) *time.Time {
	if next != models.PublishStatusPublished {
		return nil
	}
	if prev == models.PublishStatusPublished && publishedAt != nil {
		return publishedAt
	}
	return &now
}

// checkPublishStatus rejects states a resource type does not have (the
// "private" state exists only on portfolios).
func checkPublishStatus(resource string, status models.PublishStatus) error {
	for _, allowed := range models.PublishStatusesFor(resource) {
		if status == allowed {
			return nil
		}
	}
	return apperrors.New(apperrors.CodeInvalidStatus, resource,
		fmt.Sprintf("Status %q is not valid for this resource", status), http.StatusBadRequest)
}

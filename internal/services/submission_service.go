package services

import (
	"context"
	"encoding/json"
	"time"

	"cardbox_backend/internal/models"
	"cardbox_backend/internal/repositories"
	"cardbox_backend/internal/services/dto"
	"cardbox_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubmissionService interface {
	Submit(ctx context.Context, db *gorm.DB, challengeID, userID string, req *dto.SubmitRequest) (*dto.SubmissionView, error)
	Withdraw(ctx context.Context, db *gorm.DB, challengeID, userID string) error
	ListByChallenge(ctx context.Context, db *gorm.DB, challengeID, viewerID string, query *dto.SubmissionListQuery) (*dto.OffsetPage[dto.SubmissionView], error)
	ListMine(ctx context.Context, db *gorm.DB, userID string) ([]dto.SubmissionView, error)
	SetStatus(ctx context.Context, db *gorm.DB, challengeID, submissionID, callerID string, req *dto.SubmissionStatusRequest) (*dto.SubmissionView, error)
}

type submissionService struct {
	submissionRepo repositories.SubmissionRepository
	challengeRepo  repositories.ChallengeRepository
	userRepo       repositories.UserRepository
	cardRepo       repositories.NameCardRepository
}

func NewSubmissionService(
	submissionRepo repositories.SubmissionRepository,
	challengeRepo repositories.ChallengeRepository,
	userRepo repositories.UserRepository,
	cardRepo repositories.NameCardRepository,
) SubmissionService {
	return &submissionService{
		submissionRepo: submissionRepo,
		challengeRepo:  challengeRepo,
		userRepo:       userRepo,
		cardRepo:       cardRepo,
	}
}

// linkSnapshot is the shape persisted into Submission.SubmitterLinks.
type linkSnapshot struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Label    string `json:"label,omitempty"`
}

func (s *submissionService) Submit(ctx context.Context, db *gorm.DB, challengeID, userID string, req *dto.SubmitRequest) (*dto.SubmissionView, error) {
	db = db.WithContext(ctx)

	var submission *models.Submission
	err := db.Transaction(func(tx *gorm.DB) error {
		challenge, err := s.challengeRepo.FindByID(tx, challengeID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrChallengeNotFound) {
				return apperrors.NotFoundError("challenge", "Challenge not found")
			}
			return apperrors.InternalError(err)
		}
		// Unpublished challenges look absent to submitters.
		if challenge.Status != models.PublishStatusPublished {
			return apperrors.NotFoundError("challenge", "Challenge not found")
		}
		if challenge.UserID == userID {
			return apperrors.NewForbiddenError("You cannot submit to your own challenge")
		}
		if challenge.EntryState != models.EntryStateOpen {
			return apperrors.ConflictError("submission", "Challenge is not accepting submissions")
		}
		if challenge.Deadline != nil && time.Now().After(*challenge.Deadline) {
			return apperrors.ConflictError("submission", "Challenge deadline has passed")
		}

		user, err := s.userRepo.FindByID(tx, userID)
		if err != nil {
			return apperrors.InternalError(err)
		}

		links, err := s.snapshotLinks(tx, user.ID)
		if err != nil {
			return apperrors.InternalError(err)
		}

		// Counter increment and read happen inside this transaction, so
		// the order value is unique per challenge even under concurrent
		// submissions.
		order, err := s.challengeRepo.IncrementSubmissionCounter(tx, challenge.ID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrChallengeNotFound) {
				return apperrors.NotFoundError("challenge", "Challenge not found")
			}
			return apperrors.InternalError(err)
		}

		submission = &models.Submission{
			ChallengeID:     challenge.ID,
			UserID:          user.ID,
			Platform:        req.Platform,
			EntryURL:        req.EntryURL,
			MediaURL:        req.MediaURL,
			Notes:           req.Notes,
			SubmissionOrder: order,
			Status:          models.SubmissionStatusPending,
			SubmitterName:   user.DisplayName,
			SubmitterPhone:  user.Phone,
			SubmitterLinks:  links,
		}

		if err := s.submissionRepo.Create(tx, submission); err != nil {
			if apperrors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ConflictError("submission", "You have already submitted to this challenge")
			}
			return apperrors.InternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionView(submission), nil
}

func (s *submissionService) Withdraw(ctx context.Context, db *gorm.DB, challengeID, userID string) error {
	db = db.WithContext(ctx)

	return db.Transaction(func(tx *gorm.DB) error {
		submission, err := s.submissionRepo.FindByChallengeAndUser(tx, challengeID, userID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrSubmissionNotFound) {
				return apperrors.NotFoundError("submission", "Submission not found")
			}
			return apperrors.InternalError(err)
		}
		// Hard delete; the counter is never decremented, so the freed
		// order value is not reissued.
		if err := s.submissionRepo.Delete(tx, submission); err != nil {
			return apperrors.InternalError(err)
		}
		return nil
	})
}

func (s *submissionService) ListByChallenge(ctx context.Context, db *gorm.DB, challengeID, viewerID string, query *dto.SubmissionListQuery) (*dto.OffsetPage[dto.SubmissionView], error) {
	db = db.WithContext(ctx)

	challenge, err := s.challengeRepo.FindByID(db, challengeID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrChallengeNotFound) {
			return nil, apperrors.NotFoundError("challenge", "Challenge not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if challenge.Status != models.PublishStatusPublished && challenge.UserID != viewerID {
		return nil, apperrors.NotFoundError("challenge", "Challenge not found")
	}

	if query.Mine {
		if viewerID == "" {
			return nil, apperrors.NewUnauthorizedError("Authentication required")
		}
		submission, err := s.submissionRepo.FindByChallengeAndUser(db, challengeID, viewerID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrSubmissionNotFound) {
				// Not having submitted yet is an empty answer, not an error.
				return &dto.OffsetPage[dto.SubmissionView]{
					Items: []dto.SubmissionView{},
					Total: 0,
					Page:  1,
					Limit: 1,
				}, nil
			}
			return nil, apperrors.InternalError(err)
		}
		return &dto.OffsetPage[dto.SubmissionView]{
			Items: []dto.SubmissionView{*dto.NewSubmissionView(submission)},
			Total: 1,
			Page:  1,
			Limit: 1,
		}, nil
	}

	limit, offset := query.LimitOffset()
	submissions, total, err := s.submissionRepo.ListByChallenge(db, challengeID, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	page := query.Page
	if page <= 0 {
		page = 1
	}
	return &dto.OffsetPage[dto.SubmissionView]{
		Items: dto.NewSubmissionViews(submissions),
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

func (s *submissionService) ListMine(ctx context.Context, db *gorm.DB, userID string) ([]dto.SubmissionView, error) {
	submissions, err := s.submissionRepo.ListByUser(db.WithContext(ctx), userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewSubmissionViews(submissions), nil
}

func (s *submissionService) SetStatus(ctx context.Context, db *gorm.DB, challengeID, submissionID, callerID string, req *dto.SubmissionStatusRequest) (*dto.SubmissionView, error) {
	db = db.WithContext(ctx)

	var submission *models.Submission
	err := db.Transaction(func(tx *gorm.DB) error {
		// Moderation rights come from owning the challenge; the scoped
		// lookup doubles as the not-found answer for non-owners.
		if _, err := s.challengeRepo.FindOwned(tx, challengeID, callerID); err != nil {
			if apperrors.Is(err, repositories.ErrChallengeNotFound) {
				return apperrors.NotFoundError("challenge", "Challenge not found")
			}
			return apperrors.InternalError(err)
		}

		var err error
		submission, err = s.submissionRepo.FindByID(tx, submissionID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrSubmissionNotFound) {
				return apperrors.NotFoundError("submission", "Submission not found")
			}
			return apperrors.InternalError(err)
		}
		if submission.ChallengeID != challengeID {
			return apperrors.NotFoundError("submission", "Submission not found")
		}

		submission.Status = models.SubmissionStatus(req.Status)
		if err := s.submissionRepo.Save(tx, submission); err != nil {
			return apperrors.InternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionView(submission), nil
}

// snapshotLinks collects the visible social links of the submitter's
// published name cards at submission time.
func (s *submissionService) snapshotLinks(db *gorm.DB, userID string) (datatypes.JSON, error) {
	cards, err := s.cardRepo.ListByOwner(db, userID)
	if err != nil {
		return nil, err
	}

	snapshots := make([]linkSnapshot, 0)
	for i := range cards {
		if cards[i].Status != models.PublishStatusPublished {
			continue
		}
		for _, link := range cards[i].Links {
			snapshots = append(snapshots, linkSnapshot{
				Platform: link.Platform,
				URL:      link.URL,
				Label:    link.Label,
			})
		}
	}
	raw, err := json.Marshal(snapshots)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

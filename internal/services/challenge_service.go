package services

import (
	"context"
	"time"

	"cardbox_backend/internal/models"
	"cardbox_backend/internal/repositories"
	"cardbox_backend/internal/services/dto"
	"cardbox_backend/internal/slug"
	"cardbox_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const challengeSlugFallback = "challenge"

type ChallengeService interface {
	Create(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateChallengeRequest) (*dto.ChallengeView, error)
	ListMine(ctx context.Context, db *gorm.DB, userID string) ([]dto.ChallengeView, error)
	GetOwned(ctx context.Context, db *gorm.DB, userID, id string) (*dto.ChallengeView, error)
	Update(ctx context.Context, db *gorm.DB, userID, id string, req *dto.UpdateChallengeRequest) (*dto.ChallengeView, error)
	Delete(ctx context.Context, db *gorm.DB, userID, id string) error
	GetPublic(ctx context.Context, db *gorm.DB, slugValue, viewerID string) (*dto.ChallengeView, error)
	ListPublic(ctx context.Context, db *gorm.DB, query *dto.CursorQuery) (*dto.CursorPage[dto.ChallengeView], error)
}

type challengeService struct {
	challengeRepo repositories.ChallengeRepository
}

func NewChallengeService(challengeRepo repositories.ChallengeRepository) ChallengeService {
	return &challengeService{challengeRepo: challengeRepo}
}

func (s *challengeService) Create(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateChallengeRequest) (*dto.ChallengeView, error) {
	db = db.WithContext(ctx)

	status := models.PublishStatusDraft
	if req.Status != "" {
		status = models.PublishStatus(req.Status)
		if err := checkPublishStatus("challenge", status); err != nil {
			return nil, err
		}
	}
	entryState := models.EntryStateOpen
	if req.EntryState != "" {
		entryState = models.EntryState(req.EntryState)
	}

	var challenge *models.Challenge
	err := db.Transaction(func(tx *gorm.DB) error {
		challengeSlug, err := slug.Allocate(tx, &models.Challenge{}, req.Title, challengeSlugFallback)
		if err != nil {
			return apperrors.InternalError(err)
		}

		now := time.Now()
		challenge = &models.Challenge{
			UserID:      userID,
			Slug:        challengeSlug,
			Title:       req.Title,
			Brief:       req.Brief,
			Rules:       req.Rules,
			Status:      status,
			PublishedAt: applyPublishTransition(models.PublishStatusDraft, status, nil, now),
			EntryState:  entryState,
			Deadline:    req.Deadline,
			Prizes:      dto.ToPrizes(req.Prizes),
		}

		if err := s.challengeRepo.Create(tx, challenge); err != nil {
			if apperrors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ConflictError("challenge", "Slug is already taken")
			}
			return apperrors.InternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return dto.NewChallengeView(challenge, true), nil
}

func (s *challengeService) ListMine(ctx context.Context, db *gorm.DB, userID string) ([]dto.ChallengeView, error) {
	challenges, err := s.challengeRepo.ListByOwner(db.WithContext(ctx), userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	views := make([]dto.ChallengeView, 0, len(challenges))
	for i := range challenges {
		views = append(views, *dto.NewChallengeView(&challenges[i], true))
	}
	return views, nil
}

func (s *challengeService) GetOwned(ctx context.Context, db *gorm.DB, userID, id string) (*dto.ChallengeView, error) {
	challenge, err := s.loadOwned(db.WithContext(ctx), userID, id)
	if err != nil {
		return nil, err
	}
	return dto.NewChallengeView(challenge, true), nil
}

func (s *challengeService) Update(ctx context.Context, db *gorm.DB, userID, id string, req *dto.UpdateChallengeRequest) (*dto.ChallengeView, error) {
	db = db.WithContext(ctx)

	var challenge *models.Challenge
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		challenge, err = s.loadOwned(tx, userID, id)
		if err != nil {
			return err
		}

		if req.Slug != nil {
			normalized := slug.Normalize(*req.Slug)
			if normalized == "" {
				return apperrors.NewBadRequestError("Slug contains no usable characters")
			}
			if normalized != challenge.Slug {
				taken, err := slug.Taken(tx, &models.Challenge{}, normalized)
				if err != nil {
					return apperrors.InternalError(err)
				}
				if taken {
					return apperrors.ConflictError("challenge", "Slug is already taken")
				}
				challenge.Slug = normalized
			}
		}

		if req.Status != nil {
			next := models.PublishStatus(*req.Status)
			if err := checkPublishStatus("challenge", next); err != nil {
				return err
			}
			challenge.PublishedAt = applyPublishTransition(challenge.Status, next, challenge.PublishedAt, time.Now())
			challenge.Status = next
		}
		if req.EntryState != nil {
			challenge.EntryState = models.EntryState(*req.EntryState)
		}
		if req.Deadline != nil {
			challenge.Deadline = req.Deadline
		}

		applyIfSet(req.Title, &challenge.Title)
		applyIfSet(req.Brief, &challenge.Brief)
		applyIfSet(req.Rules, &challenge.Rules)

		if err := s.challengeRepo.Save(tx, challenge); err != nil {
			if apperrors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ConflictError("challenge", "Slug is already taken")
			}
			return apperrors.InternalError(err)
		}

		if req.Prizes != nil {
			challenge.Prizes = dto.ToPrizes(*req.Prizes)
			if err := s.challengeRepo.ReplacePrizes(tx, challenge.ID, challenge.Prizes); err != nil {
				return apperrors.InternalError(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return dto.NewChallengeView(challenge, true), nil
}

func (s *challengeService) Delete(ctx context.Context, db *gorm.DB, userID, id string) error {
	db = db.WithContext(ctx)

	return db.Transaction(func(tx *gorm.DB) error {
		challenge, err := s.loadOwned(tx, userID, id)
		if err != nil {
			return err
		}
		if err := s.challengeRepo.Delete(tx, challenge); err != nil {
			return apperrors.InternalError(err)
		}
		return nil
	})
}

func (s *challengeService) GetPublic(ctx context.Context, db *gorm.DB, slugValue, viewerID string) (*dto.ChallengeView, error) {
	challenge, err := s.challengeRepo.FindPublishedBySlug(db.WithContext(ctx), slugValue)
	if err != nil {
		if apperrors.Is(err, repositories.ErrChallengeNotFound) {
			return nil, apperrors.NotFoundError("challenge", "Challenge not found")
		}
		return nil, apperrors.InternalError(err)
	}

	isOwner := viewerID != "" && challenge.UserID == viewerID
	return dto.NewChallengeView(challenge, isOwner), nil
}

func (s *challengeService) ListPublic(ctx context.Context, db *gorm.DB, query *dto.CursorQuery) (*dto.CursorPage[dto.ChallengeView], error) {
	limit := query.PageSize()

	challenges, err := s.challengeRepo.ListPublished(db.WithContext(ctx), query.Cursor, limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	page := &dto.CursorPage[dto.ChallengeView]{Items: make([]dto.ChallengeView, 0, len(challenges))}
	for i := range challenges {
		page.Items = append(page.Items, *dto.NewChallengeView(&challenges[i], false))
	}
	if len(challenges) == limit {
		page.NextCursor = challenges[len(challenges)-1].ID
	}
	return page, nil
}

func (s *challengeService) loadOwned(db *gorm.DB, userID, id string) (*models.Challenge, error) {
	challenge, err := s.challengeRepo.FindOwned(db, id, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrChallengeNotFound) {
			return nil, apperrors.NotFoundError("challenge", "Challenge not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return challenge, nil
}

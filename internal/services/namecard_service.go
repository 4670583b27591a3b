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

const cardSlugFallback = "card"

type NameCardService interface {
	Create(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateCardRequest) (*dto.CardView, error)
	ListMine(ctx context.Context, db *gorm.DB, userID string) ([]dto.CardView, error)
	GetOwned(ctx context.Context, db *gorm.DB, userID, id string) (*dto.CardView, error)
	Update(ctx context.Context, db *gorm.DB, userID, id string, req *dto.UpdateCardRequest) (*dto.CardView, error)
	Delete(ctx context.Context, db *gorm.DB, userID, id string) error
	GetPublic(ctx context.Context, db *gorm.DB, slugValue, viewerID string) (*dto.CardView, error)
	ListPublic(ctx context.Context, db *gorm.DB, query *dto.CursorQuery) (*dto.CursorPage[dto.CardView], error)
}

type nameCardService struct {
	cardRepo repositories.NameCardRepository
}

func NewNameCardService(cardRepo repositories.NameCardRepository) NameCardService {
	return &nameCardService{cardRepo: cardRepo}
}

func (s *nameCardService) Create(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateCardRequest) (*dto.CardView, error) {
	db = db.WithContext(ctx)

	status := models.PublishStatusDraft
	if req.Status != "" {
		status = models.PublishStatus(req.Status)
		if err := checkPublishStatus("digital-name-card", status); err != nil {
			return nil, err
		}
	}

	var card *models.DigitalNameCard
	err := db.Transaction(func(tx *gorm.DB) error {
		// Name cards treat the slug as caller-chosen: an explicit value
		// that is already taken is a conflict, not an auto-suffix.
		var cardSlug string
		if req.Slug != nil {
			cardSlug = slug.Normalize(*req.Slug)
			if cardSlug == "" {
				return apperrors.NewBadRequestError("Slug contains no usable characters")
			}
			taken, err := slug.Taken(tx, &models.DigitalNameCard{}, cardSlug)
			if err != nil {
				return apperrors.InternalError(err)
			}
			if taken {
				return apperrors.ConflictError("digital-name-card", "Slug is already taken")
			}
		} else {
			allocated, err := slug.Allocate(tx, &models.DigitalNameCard{}, req.DisplayName, cardSlugFallback)
			if err != nil {
				return apperrors.InternalError(err)
			}
			cardSlug = allocated
		}

		now := time.Now()
		card = &models.DigitalNameCard{
			UserID:         userID,
			Slug:           cardSlug,
			DisplayName:    req.DisplayName,
			Title:          req.Title,
			Bio:            req.Bio,
			Status:         status,
			PublishedAt:    applyPublishTransition(models.PublishStatusDraft, status, nil, now),
			Phone:          req.Phone,
			ShowPhone:      req.ShowPhone,
			Company:        req.Company,
			ShowCompany:    req.ShowCompany,
			University:     req.University,
			ShowUniversity: req.ShowUniversity,
			Religion:       req.Religion,
			ShowReligion:   req.ShowReligion,
			Country:        req.Country,
			ShowCountry:    req.ShowCountry,
			Images:         toCardImages(req.Images),
			Links:          toCardLinks(req.Links),
		}

		if err := s.cardRepo.Create(tx, card); err != nil {
			if apperrors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ConflictError("digital-name-card", "Slug is already taken")
			}
			return apperrors.InternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return dto.NewCardView(card, true, true), nil
}

func (s *nameCardService) ListMine(ctx context.Context, db *gorm.DB, userID string) ([]dto.CardView, error) {
	cards, err := s.cardRepo.ListByOwner(db.WithContext(ctx), userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	views := make([]dto.CardView, 0, len(cards))
	for i := range cards {
		views = append(views, *dto.NewCardView(&cards[i], true, true))
	}
	return views, nil
}

func (s *nameCardService) GetOwned(ctx context.Context, db *gorm.DB, userID, id string) (*dto.CardView, error) {
	card, err := s.loadOwned(db.WithContext(ctx), userID, id)
	if err != nil {
		return nil, err
	}
	return dto.NewCardView(card, true, true), nil
}

func (s *nameCardService) Update(ctx context.Context, db *gorm.DB, userID, id string, req *dto.UpdateCardRequest) (*dto.CardView, error) {
	db = db.WithContext(ctx)

	var card *models.DigitalNameCard
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		card, err = s.loadOwned(tx, userID, id)
		if err != nil {
			return err
		}

		if req.Slug != nil {
			normalized := slug.Normalize(*req.Slug)
			if normalized == "" {
				return apperrors.NewBadRequestError("Slug contains no usable characters")
			}
			if normalized != card.Slug {
				taken, err := slug.Taken(tx, &models.DigitalNameCard{}, normalized)
				if err != nil {
					return apperrors.InternalError(err)
				}
				if taken {
					return apperrors.ConflictError("digital-name-card", "Slug is already taken")
				}
				card.Slug = normalized
			}
		}

		if req.Status != nil {
			next := models.PublishStatus(*req.Status)
			if err := checkPublishStatus("digital-name-card", next); err != nil {
				return err
			}
			card.PublishedAt = applyPublishTransition(card.Status, next, card.PublishedAt, time.Now())
			card.Status = next
		}

		applyIfSet(req.DisplayName, &card.DisplayName)
		applyIfSet(req.Title, &card.Title)
		applyIfSet(req.Bio, &card.Bio)
		applyIfSet(req.Phone, &card.Phone)
		applyIfSet(req.Company, &card.Company)
		applyIfSet(req.University, &card.University)
		applyIfSet(req.Religion, &card.Religion)
		applyIfSet(req.Country, &card.Country)
		applyBoolIfSet(req.ShowPhone, &card.ShowPhone)
		applyBoolIfSet(req.ShowCompany, &card.ShowCompany)
		applyBoolIfSet(req.ShowUniversity, &card.ShowUniversity)
		applyBoolIfSet(req.ShowReligion, &card.ShowReligion)
		applyBoolIfSet(req.ShowCountry, &card.ShowCountry)

		if err := s.cardRepo.Save(tx, card); err != nil {
			if apperrors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ConflictError("digital-name-card", "Slug is already taken")
			}
			return apperrors.InternalError(err)
		}

		// Child collections present in the patch are replaced wholesale,
		// inside this same transaction.
		if req.Images != nil {
			card.Images = toCardImages(*req.Images)
			if err := s.cardRepo.ReplaceImages(tx, card.ID, card.Images); err != nil {
				return apperrors.InternalError(err)
			}
		}
		if req.Links != nil {
			card.Links = toCardLinks(*req.Links)
			if err := s.cardRepo.ReplaceLinks(tx, card.ID, card.Links); err != nil {
				return apperrors.InternalError(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return dto.NewCardView(card, true, true), nil
}

func (s *nameCardService) Delete(ctx context.Context, db *gorm.DB, userID, id string) error {
	db = db.WithContext(ctx)

	return db.Transaction(func(tx *gorm.DB) error {
		card, err := s.loadOwned(tx, userID, id)
		if err != nil {
			return err
		}
		if err := s.cardRepo.Delete(tx, card); err != nil {
			return apperrors.InternalError(err)
		}
		return nil
	})
}

func (s *nameCardService) GetPublic(ctx context.Context, db *gorm.DB, slugValue, viewerID string) (*dto.CardView, error) {
	card, err := s.cardRepo.FindPublishedBySlug(db.WithContext(ctx), slugValue)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCardNotFound) {
			return nil, apperrors.NotFoundError("digital-name-card", "Name card not found")
		}
		return nil, apperrors.InternalError(err)
	}

	isOwner := viewerID != "" && card.UserID == viewerID
	// Field visibility is not relaxed for the owner here: the public
	// endpoint projects what everyone else sees, only flagging ownership.
	return dto.NewCardView(card, false, isOwner), nil
}

func (s *nameCardService) ListPublic(ctx context.Context, db *gorm.DB, query *dto.CursorQuery) (*dto.CursorPage[dto.CardView], error) {
	limit := query.PageSize()

	cards, err := s.cardRepo.ListPublished(db.WithContext(ctx), query.Cursor, limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	page := &dto.CursorPage[dto.CardView]{Items: make([]dto.CardView, 0, len(cards))}
	for i := range cards {
		page.Items = append(page.Items, *dto.NewCardView(&cards[i], false, false))
	}
	if len(cards) == limit {
		page.NextCursor = cards[len(cards)-1].ID
	}
	return page, nil
}

func (s *nameCardService) loadOwned(db *gorm.DB, userID, id string) (*models.DigitalNameCard, error) {
	card, err := s.cardRepo.FindOwned(db, id, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCardNotFound) {
			return nil, apperrors.NotFoundError("digital-name-card", "Name card not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return card, nil
}

func toCardImages(inputs []dto.CardImageInput) []models.CardImage {
	images := make([]models.CardImage, 0, len(inputs))
	for _, in := range inputs {
		images = append(images, models.CardImage{URL: in.URL, SortOrder: in.SortOrder})
	}
	return images
}

func toCardLinks(inputs []dto.CardLinkInput) []models.CardLink {
	links := make([]models.CardLink, 0, len(inputs))
	for _, in := range inputs {
		links = append(links, models.CardLink{
			Platform:  in.Platform,
			URL:       in.URL,
			Label:     in.Label,
			SortOrder: in.SortOrder,
		})
	}
	return links
}

// applyIfSet copies a patch field when present; nil means no-op.
func applyIfSet(src *string, dst *string) {
	if src != nil {
		*dst = *src
	}
}

func applyBoolIfSet(src *bool, dst *bool) {
	if src != nil {
		*dst = *src
	}
}

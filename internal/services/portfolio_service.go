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

const portfolioSlugFallback = "portfolio"

type PortfolioService interface {
	Create(ctx context.Context, db *gorm.DB, userID string, req *dto.CreatePortfolioRequest) (*dto.PortfolioView, error)
	ListMine(ctx context.Context, db *gorm.DB, userID string) ([]dto.PortfolioView, error)
	GetOwned(ctx context.Context, db *gorm.DB, userID, id string) (*dto.PortfolioView, error)
	Update(ctx context.Context, db *gorm.DB, userID, id string, req *dto.UpdatePortfolioRequest) (*dto.PortfolioView, error)
	Delete(ctx context.Context, db *gorm.DB, userID, id string) error
	GetPublic(ctx context.Context, db *gorm.DB, slugValue, viewerID string) (*dto.PortfolioView, error)
	ListPublic(ctx context.Context, db *gorm.DB, query *dto.CursorQuery) (*dto.CursorPage[dto.PortfolioView], error)
}

type portfolioService struct {
	portfolioRepo repositories.PortfolioRepository
}

func NewPortfolioService(portfolioRepo repositories.PortfolioRepository) PortfolioService {
	return &portfolioService{portfolioRepo: portfolioRepo}
}

func (s *portfolioService) Create(ctx context.Context, db *gorm.DB, userID string, req *dto.CreatePortfolioRequest) (*dto.PortfolioView, error) {
	db = db.WithContext(ctx)

	status := models.PublishStatusDraft
	if req.Status != "" {
		status = models.PublishStatus(req.Status)
		if err := checkPublishStatus("portfolio", status); err != nil {
			return nil, err
		}
	}

	var portfolio *models.Portfolio
	err := db.Transaction(func(tx *gorm.DB) error {
		portfolioSlug, err := slug.Allocate(tx, &models.Portfolio{}, req.Title, portfolioSlugFallback)
		if err != nil {
			return apperrors.InternalError(err)
		}

		now := time.Now()
		portfolio = &models.Portfolio{
			UserID:      userID,
			Slug:        portfolioSlug,
			Title:       req.Title,
			About:       req.About,
			Status:      status,
			PublishedAt: applyPublishTransition(models.PublishStatusDraft, status, nil, now),
			Projects:    dto.ToProjects(req.Projects),
		}

		if err := s.portfolioRepo.Create(tx, portfolio); err != nil {
			if apperrors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ConflictError("portfolio", "Slug is already taken")
			}
			return apperrors.InternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return dto.NewPortfolioView(portfolio, true), nil
}

func (s *portfolioService) ListMine(ctx context.Context, db *gorm.DB, userID string) ([]dto.PortfolioView, error) {
	portfolios, err := s.portfolioRepo.ListByOwner(db.WithContext(ctx), userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	views := make([]dto.PortfolioView, 0, len(portfolios))
	for i := range portfolios {
		views = append(views, *dto.NewPortfolioView(&portfolios[i], true))
	}
	return views, nil
}

func (s *portfolioService) GetOwned(ctx context.Context, db *gorm.DB, userID, id string) (*dto.PortfolioView, error) {
	portfolio, err := s.loadOwned(db.WithContext(ctx), userID, id)
	if err != nil {
		return nil, err
	}
	return dto.NewPortfolioView(portfolio, true), nil
}

func (s *portfolioService) Update(ctx context.Context, db *gorm.DB, userID, id string, req *dto.UpdatePortfolioRequest) (*dto.PortfolioView, error) {
	db = db.WithContext(ctx)

	var portfolio *models.Portfolio
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		portfolio, err = s.loadOwned(tx, userID, id)
		if err != nil {
			return err
		}

		if req.Slug != nil {
			normalized := slug.Normalize(*req.Slug)
			if normalized == "" {
				return apperrors.NewBadRequestError("Slug contains no usable characters")
			}
			if normalized != portfolio.Slug {
				taken, err := slug.Taken(tx, &models.Portfolio{}, normalized)
				if err != nil {
					return apperrors.InternalError(err)
				}
				if taken {
					return apperrors.ConflictError("portfolio", "Slug is already taken")
				}
				portfolio.Slug = normalized
			}
		}

		if req.Status != nil {
			next := models.PublishStatus(*req.Status)
			if err := checkPublishStatus("portfolio", next); err != nil {
				return err
			}
			portfolio.PublishedAt = applyPublishTransition(portfolio.Status, next, portfolio.PublishedAt, time.Now())
			portfolio.Status = next
		}

		applyIfSet(req.Title, &portfolio.Title)
		applyIfSet(req.About, &portfolio.About)

		if err := s.portfolioRepo.Save(tx, portfolio); err != nil {
			if apperrors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ConflictError("portfolio", "Slug is already taken")
			}
			return apperrors.InternalError(err)
		}

		if req.Projects != nil {
			portfolio.Projects = dto.ToProjects(*req.Projects)
			if err := s.portfolioRepo.ReplaceProjects(tx, portfolio.ID, portfolio.Projects); err != nil {
				return apperrors.InternalError(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return dto.NewPortfolioView(portfolio, true), nil
}

func (s *portfolioService) Delete(ctx context.Context, db *gorm.DB, userID, id string) error {
	db = db.WithContext(ctx)

	return db.Transaction(func(tx *gorm.DB) error {
		portfolio, err := s.loadOwned(tx, userID, id)
		if err != nil {
			return err
		}
		if err := s.portfolioRepo.Delete(tx, portfolio); err != nil {
			return apperrors.InternalError(err)
		}
		return nil
	})
}

func (s *portfolioService) GetPublic(ctx context.Context, db *gorm.DB, slugValue, viewerID string) (*dto.PortfolioView, error) {
	portfolio, err := s.portfolioRepo.FindPublishedBySlug(db.WithContext(ctx), slugValue)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPortfolioNotFound) {
			return nil, apperrors.NotFoundError("portfolio", "Portfolio not found")
		}
		return nil, apperrors.InternalError(err)
	}

	isOwner := viewerID != "" && portfolio.UserID == viewerID
	return dto.NewPortfolioView(portfolio, isOwner), nil
}

func (s *portfolioService) ListPublic(ctx context.Context, db *gorm.DB, query *dto.CursorQuery) (*dto.CursorPage[dto.PortfolioView], error) {
	limit := query.PageSize()

	portfolios, err := s.portfolioRepo.ListPublished(db.WithContext(ctx), query.Cursor, limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	page := &dto.CursorPage[dto.PortfolioView]{Items: make([]dto.PortfolioView, 0, len(portfolios))}
	for i := range portfolios {
		page.Items = append(page.Items, *dto.NewPortfolioView(&portfolios[i], false))
	}
	if len(portfolios) == limit {
		page.NextCursor = portfolios[len(portfolios)-1].ID
	}
	return page, nil
}

func (s *portfolioService) loadOwned(db *gorm.DB, userID, id string) (*models.Portfolio, error) {
	portfolio, err := s.portfolioRepo.FindOwned(db, id, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPortfolioNotFound) {
			return nil, apperrors.NotFoundError("portfolio", "Portfolio not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return portfolio, nil
}

package repositories

import (
	"errors"

	"cardbox_backend/internal/models"

	"gorm.io/gorm"
)

var ErrPortfolioNotFound = errors.New("portfolio not found")

type PortfolioRepository interface {
	Create(db *gorm.DB, portfolio *models.Portfolio) error
	Save(db *gorm.DB, portfolio *models.Portfolio) error
	FindOwned(db *gorm.DB, id, userID string) (*models.Portfolio, error)
	FindPublishedBySlug(db *gorm.DB, slug string) (*models.Portfolio, error)
	ListByOwner(db *gorm.DB, userID string) ([]models.Portfolio, error)
	ListPublished(db *gorm.DB, afterID string, limit int) ([]models.Portfolio, error)
	Delete(db *gorm.DB, portfolio *models.Portfolio) error
	ReplaceProjects(db *gorm.DB, portfolioID string, projects []models.PortfolioProject) error
}

type portfolioRepository struct{}

func NewPortfolioRepository() PortfolioRepository {
	return &portfolioRepository{}
}

func (r *portfolioRepository) Create(db *gorm.DB, portfolio *models.Portfolio) error {
	return db.Create(portfolio).Error
}

func (r *portfolioRepository) Save(db *gorm.DB, portfolio *models.Portfolio) error {
	return db.Omit("Projects").Save(portfolio).Error
}

func (r *portfolioRepository) FindOwned(db *gorm.DB, id, userID string) (*models.Portfolio, error) {
	portfolio, err := FindOwned[models.Portfolio](db, id, userID,
		"Projects", "Projects.Images", "Projects.Links")
	if errors.Is(err, ErrNotOwned) {
		return nil, ErrPortfolioNotFound
	}
	return portfolio, err
}

func (r *portfolioRepository) FindPublishedBySlug(db *gorm.DB, slug string) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	err := r.preloadProjects(db).
		Where("slug = ? AND status = ?", slug, models.PublishStatusPublished).
		First(&portfolio).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPortfolioNotFound
		}
		return nil, err
	}
	return &portfolio, nil
}

func (r *portfolioRepository) ListByOwner(db *gorm.DB, userID string) ([]models.Portfolio, error) {
	var portfolios []models.Portfolio
	err := r.preloadProjects(db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&portfolios).Error
	return portfolios, err
}

func (r *portfolioRepository) ListPublished(db *gorm.DB, afterID string, limit int) ([]models.Portfolio, error) {
	q := r.preloadProjects(db).
		Where("status = ?", models.PublishStatusPublished).
		Order("id ASC").Limit(limit)
	if afterID != "" {
		q = q.Where("id > ?", afterID)
	}

	var portfolios []models.Portfolio
	err := q.Find(&portfolios).Error
	return portfolios, err
}

func (r *portfolioRepository) Delete(db *gorm.DB, portfolio *models.Portfolio) error {
	// Children two levels deep; collect project ids first.
	var projectIDs []string
	if err := db.Model(&models.PortfolioProject{}).
		Where("portfolio_id = ?", portfolio.ID).
		Pluck("id", &projectIDs).Error; err != nil {
		return err
	}

	if len(projectIDs) > 0 {
		if err := db.Where("project_id IN ?", projectIDs).Delete(&models.ProjectImage{}).Error; err != nil {
			return err
		}
		if err := db.Where("project_id IN ?", projectIDs).Delete(&models.ProjectLink{}).Error; err != nil {
			return err
		}
	}
	if err := db.Where("portfolio_id = ?", portfolio.ID).Delete(&models.PortfolioProject{}).Error; err != nil {
		return err
	}
	return db.Delete(portfolio).Error
}

func (r *portfolioRepository) ReplaceProjects(db *gorm.DB, portfolioID string, projects []models.PortfolioProject) error {
	var projectIDs []string
	if err := db.Model(&models.PortfolioProject{}).
		Where("portfolio_id = ?", portfolioID).
		Pluck("id", &projectIDs).Error; err != nil {
		return err
	}
	if len(projectIDs) > 0 {
		if err := db.Where("project_id IN ?", projectIDs).Delete(&models.ProjectImage{}).Error; err != nil {
			return err
		}
		if err := db.Where("project_id IN ?", projectIDs).Delete(&models.ProjectLink{}).Error; err != nil {
			return err
		}
	}

	for i := range projects {
		projects[i].PortfolioID = portfolioID
	}
	return ReplaceChildren(db, "portfolio_id", portfolioID, projects)
}

func (r *portfolioRepository) preloadProjects(db *gorm.DB) *gorm.DB {
	return db.Preload("Projects", orderBySortOrder).
		Preload("Projects.Images", orderBySortOrder).
		Preload("Projects.Links", orderBySortOrder)
}

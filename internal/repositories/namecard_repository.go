package repositories

import (
	"errors"

	"cardbox_backend/internal/models"

	"gorm.io/gorm"
)

var ErrCardNotFound = errors.New("digital name card not found")

type NameCardRepository interface {
	Create(db *gorm.DB, card *models.DigitalNameCard) error
	Save(db *gorm.DB, card *models.DigitalNameCard) error
	FindOwned(db *gorm.DB, id, userID string) (*models.DigitalNameCard, error)
	FindPublishedBySlug(db *gorm.DB, slug string) (*models.DigitalNameCard, error)
	ListByOwner(db *gorm.DB, userID string) ([]models.DigitalNameCard, error)
	ListPublished(db *gorm.DB, afterID string, limit int) ([]models.DigitalNameCard, error)
	Delete(db *gorm.DB, card *models.DigitalNameCard) error
	ReplaceImages(db *gorm.DB, cardID string, images []models.CardImage) error
	ReplaceLinks(db *gorm.DB, cardID string, links []models.CardLink) error
}

type nameCardRepository struct{}

func NewNameCardRepository() NameCardRepository {
	return &nameCardRepository{}
}

func (r *nameCardRepository) Create(db *gorm.DB, card *models.DigitalNameCard) error {
	return db.Create(card).Error
}

func (r *nameCardRepository) Save(db *gorm.DB, card *models.DigitalNameCard) error {
	// Omit associations: child collections are only ever rewritten through
	// the explicit Replace* methods, never as a side effect of a base save.
	return db.Omit("Images", "Links").Save(card).Error
}

func (r *nameCardRepository) FindOwned(db *gorm.DB, id, userID string) (*models.DigitalNameCard, error) {
	card, err := FindOwned[models.DigitalNameCard](db, id, userID, "Images", "Links")
	if errors.Is(err, ErrNotOwned) {
		return nil, ErrCardNotFound
	}
	return card, err
}

func (r *nameCardRepository) FindPublishedBySlug(db *gorm.DB, slug string) (*models.DigitalNameCard, error) {
	var card models.DigitalNameCard
	err := db.Preload("Images", orderBySortOrder).Preload("Links", orderBySortOrder).
		Where("slug = ? AND status = ?", slug, models.PublishStatusPublished).
		First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return &card, nil
}

func (r *nameCardRepository) ListByOwner(db *gorm.DB, userID string) ([]models.DigitalNameCard, error) {
	var cards []models.DigitalNameCard
	// Published cards first, then newest first within each group.
	err := db.Preload("Images", orderBySortOrder).Preload("Links", orderBySortOrder).
		Where("user_id = ?", userID).
		Order("CASE WHEN status = 'published' THEN 0 ELSE 1 END, created_at DESC").
		Find(&cards).Error
	return cards, err
}

func (r *nameCardRepository) ListPublished(db *gorm.DB, afterID string, limit int) ([]models.DigitalNameCard, error) {
	q := db.Preload("Images", orderBySortOrder).Preload("Links", orderBySortOrder).
		Where("status = ?", models.PublishStatusPublished).
		Order("id ASC").Limit(limit)
	if afterID != "" {
		q = q.Where("id > ?", afterID)
	}

	var cards []models.DigitalNameCard
	err := q.Find(&cards).Error
	return cards, err
}

func (r *nameCardRepository) Delete(db *gorm.DB, card *models.DigitalNameCard) error {
	if err := db.Where("card_id = ?", card.ID).Delete(&models.CardImage{}).Error; err != nil {
		return err
	}
	if err := db.Where("card_id = ?", card.ID).Delete(&models.CardLink{}).Error; err != nil {
		return err
	}
	return db.Delete(card).Error
}

func (r *nameCardRepository) ReplaceImages(db *gorm.DB, cardID string, images []models.CardImage) error {
	for i := range images {
		images[i].CardID = cardID
	}
	return ReplaceChildren(db, "card_id", cardID, images)
}

func (r *nameCardRepository) ReplaceLinks(db *gorm.DB, cardID string, links []models.CardLink) error {
	for i := range links {
		links[i].CardID = cardID
	}
	return ReplaceChildren(db, "card_id", cardID, links)
}

func orderBySortOrder(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC")
}

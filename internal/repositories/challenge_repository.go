package repositories

import (
	"errors"

	"cardbox_backend/internal/models"

	"gorm.io/gorm"
)

var ErrChallengeNotFound = errors.New("challenge not found")

type ChallengeRepository interface {
	Create(db *gorm.DB, challenge *models.Challenge) error
	Save(db *gorm.DB, challenge *models.Challenge) error
	FindByID(db *gorm.DB, id string) (*models.Challenge, error)
	FindOwned(db *gorm.DB, id, userID string) (*models.Challenge, error)
	FindPublishedBySlug(db *gorm.DB, slug string) (*models.Challenge, error)
	ListByOwner(db *gorm.DB, userID string) ([]models.Challenge, error)
	ListPublished(db *gorm.DB, afterID string, limit int) ([]models.Challenge, error)
	Delete(db *gorm.DB, challenge *models.Challenge) error
	ReplacePrizes(db *gorm.DB, challengeID string, prizes []models.ChallengePrize) error
	IncrementSubmissionCounter(db *gorm.DB, challengeID string) (int64, error)
}

type challengeRepository struct{}

func NewChallengeRepository() ChallengeRepository {
	return &challengeRepository{}
}

func (r *challengeRepository) Create(db *gorm.DB, challenge *models.Challenge) error {
	return db.Create(challenge).Error
}

// Save writes the challenge row except the submission counter, which is
// only ever moved by IncrementSubmissionCounter. A row loaded before a
// concurrent submission must not write its stale counter back.
func (r *challengeRepository) Save(db *gorm.DB, challenge *models.Challenge) error {
	return db.Omit("Prizes", "SubmissionCounter").Save(challenge).Error
}

func (r *challengeRepository) FindByID(db *gorm.DB, id string) (*models.Challenge, error) {
	var challenge models.Challenge
	err := db.Preload("Prizes", orderByRank).Where("id = ?", id).First(&challenge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}
	return &challenge, nil
}

func (r *challengeRepository) FindOwned(db *gorm.DB, id, userID string) (*models.Challenge, error) {
	challenge, err := FindOwned[models.Challenge](db, id, userID, "Prizes")
	if errors.Is(err, ErrNotOwned) {
		return nil, ErrChallengeNotFound
	}
	return challenge, err
}

func (r *challengeRepository) FindPublishedBySlug(db *gorm.DB, slug string) (*models.Challenge, error) {
	var challenge models.Challenge
	err := db.Preload("Prizes", orderByRank).
		Where("slug = ? AND status = ?", slug, models.PublishStatusPublished).
		First(&challenge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}
	return &challenge, nil
}

func (r *challengeRepository) ListByOwner(db *gorm.DB, userID string) ([]models.Challenge, error) {
	var challenges []models.Challenge
	err := db.Preload("Prizes", orderByRank).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&challenges).Error
	return challenges, err
}

func (r *challengeRepository) ListPublished(db *gorm.DB, afterID string, limit int) ([]models.Challenge, error) {
	q := db.Preload("Prizes", orderByRank).
		Where("status = ?", models.PublishStatusPublished).
		Order("id ASC").Limit(limit)
	if afterID != "" {
		q = q.Where("id > ?", afterID)
	}

	var challenges []models.Challenge
	err := q.Find(&challenges).Error
	return challenges, err
}

func (r *challengeRepository) Delete(db *gorm.DB, challenge *models.Challenge) error {
	if err := db.Where("challenge_id = ?", challenge.ID).Delete(&models.ChallengePrize{}).Error; err != nil {
		return err
	}
	if err := db.Where("challenge_id = ?", challenge.ID).Delete(&models.Submission{}).Error; err != nil {
		return err
	}
	return db.Delete(challenge).Error
}

func (r *challengeRepository) ReplacePrizes(db *gorm.DB, challengeID string, prizes []models.ChallengePrize) error {
	for i := range prizes {
		prizes[i].ChallengeID = challengeID
	}
	return ReplaceChildren(db, "challenge_id", challengeID, prizes)
}

// IncrementSubmissionCounter bumps the per-challenge counter and returns
// the post-increment value. The UPDATE takes a row lock for the rest of
// the enclosing transaction, so two concurrent submissions can never read
// the same value.
func (r *challengeRepository) IncrementSubmissionCounter(db *gorm.DB, challengeID string) (int64, error) {
	res := db.Model(&models.Challenge{}).
		Where("id = ?", challengeID).
		UpdateColumn("submission_counter", gorm.Expr("submission_counter + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrChallengeNotFound
	}

	var counter int64
	err := db.Model(&models.Challenge{}).
		Where("id = ?", challengeID).
		Pluck("submission_counter", &counter).Error
	return counter, err
}

func orderByRank(db *gorm.DB) *gorm.DB {
	return db.Order("rank ASC")
}

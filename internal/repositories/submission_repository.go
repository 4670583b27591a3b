package repositories

import (
	"errors"

	"cardbox_backend/internal/models"

	"gorm.io/gorm"
)

var ErrSubmissionNotFound = errors.New("submission not found")

type SubmissionRepository interface {
	Create(db *gorm.DB, submission *models.Submission) error
	Save(db *gorm.DB, submission *models.Submission) error
	FindByID(db *gorm.DB, id string) (*models.Submission, error)
	FindByChallengeAndUser(db *gorm.DB, challengeID, userID string) (*models.Submission, error)
	ListByChallenge(db *gorm.DB, challengeID string, limit, offset int) ([]models.Submission, int64, error)
	ListByUser(db *gorm.DB, userID string) ([]models.Submission, error)
	Delete(db *gorm.DB, submission *models.Submission) error
}

type submissionRepository struct{}

func NewSubmissionRepository() SubmissionRepository {
	return &submissionRepository{}
}

func (r *submissionRepository) Create(db *gorm.DB, submission *models.Submission) error {
	return db.Create(submission).Error
}

func (r *submissionRepository) Save(db *gorm.DB, submission *models.Submission) error {
	return db.Save(submission).Error
}

func (r *submissionRepository) FindByID(db *gorm.DB, id string) (*models.Submission, error) {
	var submission models.Submission
	if err := db.Where("id = ?", id).First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) FindByChallengeAndUser(db *gorm.DB, challengeID, userID string) (*models.Submission, error) {
	var submission models.Submission
	err := db.Where("challenge_id = ? AND user_id = ?", challengeID, userID).First(&submission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) ListByChallenge(db *gorm.DB, challengeID string, limit, offset int) ([]models.Submission, int64, error) {
	var total int64
	if err := db.Model(&models.Submission{}).
		Where("challenge_id = ?", challengeID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var submissions []models.Submission
	err := db.Where("challenge_id = ?", challengeID).
		Order("submission_order ASC").
		Limit(limit).Offset(offset).
		Find(&submissions).Error
	return submissions, total, err
}

func (r *submissionRepository) ListByUser(db *gorm.DB, userID string) ([]models.Submission, error) {
	var submissions []models.Submission
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepository) Delete(db *gorm.DB, submission *models.Submission) error {
	return db.Delete(submission).Error
}

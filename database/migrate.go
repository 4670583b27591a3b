package database

import (
	"fmt"

	"cardbox_backend/internal/config"
	"cardbox_backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var gormDB *gorm.DB

// ConnectGorm opens the shared GORM handle using the configured DSN.
// TranslateError turns driver unique-violation errors into
// gorm.ErrDuplicatedKey, which the services rely on.
func ConnectGorm() (*gorm.DB, error) {
	if gormDB != nil {
		return gormDB, nil
	}

	cfg := config.GetConfig()
	dsn := cfg.Database.DSN

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	gormDB = db
	return db, nil
}

// AllModels lists every persisted model, in dependency order. Shared by
// the production migration and the test databases.
func AllModels() []any {
	return []any{
		&models.User{},
		&models.DigitalNameCard{},
		&models.CardImage{},
		&models.CardLink{},
		&models.Portfolio{},
		&models.PortfolioProject{},
		&models.ProjectImage{},
		&models.ProjectLink{},
		&models.Challenge{},
		&models.ChallengePrize{},
		&models.Submission{},
		&models.Subscription{},
	}
}

// AutoMigrate migrates all models on the shared handle.
func AutoMigrate() error {
	db, err := ConnectGorm()
	if err != nil {
		return err
	}
	return db.AutoMigrate(AllModels()...)
}

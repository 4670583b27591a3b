package workers

import (
	"context"
	"time"

	"cardbox_backend/internal/logger"

	"gorm.io/gorm"
)

// SubscriptionWorker periodically demotes users whose paid period ended
// while their local status still says active. It is a safety net for
// provider updates the finalize endpoint never saw.
type SubscriptionWorker struct {
	db       *gorm.DB
	interval time.Duration
}

func NewSubscriptionWorker(db *gorm.DB) *SubscriptionWorker {
	return &SubscriptionWorker{
		db:       db,
		interval: 6 * time.Hour,
	}
}

// Start launches the sweep loop. It returns immediately; the loop stops
// when ctx is canceled.
func (w *SubscriptionWorker) Start(ctx context.Context) {
	go w.sweepLapsedSubscriptions(ctx)
}

func (w *SubscriptionWorker) sweepLapsedSubscriptions(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Subscription worker stopped")
			return
		case <-ticker.C:
			w.SweepOnce(time.Now())
		}
	}
}

// SweepOnce runs a single demotion pass against the given cutoff.
func (w *SubscriptionWorker) SweepOnce(now time.Time) {
	err := w.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Exec(`
			UPDATE subscriptions
			SET status = 'expired', updated_at = ?
			WHERE status = 'active'
			AND current_period_end < ?
		`, now, now)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			logger.Info("Marked lapsed subscriptions as expired", "count", result.RowsAffected)
		}

		result = tx.Exec(`
			UPDATE users
			SET plan = 'free', subscription_status = 'expired', updated_at = ?
			WHERE subscription_status = 'active'
			AND current_period_end < ?
		`, now, now)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			logger.Info("Demoted users with lapsed subscriptions", "count", result.RowsAffected)
		}
		return nil
	})
	if err != nil {
		logger.Error("Subscription sweep failed", "error", err)
	}
}

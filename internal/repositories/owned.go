package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotOwned is returned when a row is absent OR belongs to another
// user. The two cases are deliberately indistinguishable so an ownership
// probe can never confirm that somebody else's resource exists.
var ErrNotOwned = errors.New("resource not found")

// FindOwned loads a row by id scoped to its owner. Every owned-mutation
// path goes through this single helper so the not-found-not-forbidden
// rule is applied uniformly instead of per-handler copy-paste.
func FindOwned[T any](db *gorm.DB, id, userID string, preloads ...string) (*T, error) {
	q := db.Where("id = ? AND user_id = ?", id, userID)
	for _, p := range preloads {
		q = q.Preload(p)
	}

	var out T
	if err := q.First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotOwned
		}
		return nil, err
	}
	return &out, nil
}

// ReplaceChildren implements the full-replacement semantics for a child
// collection: delete everything under the parent, insert what the caller
// provided. It must run inside the caller's transaction so a failure
// never leaves an observable emptied collection.
func ReplaceChildren[T any](tx *gorm.DB, parentColumn, parentID string, children []T) error {
	var zero T
	if err := tx.Where(parentColumn+" = ?", parentID).Delete(&zero).Error; err != nil {
		return err
	}
	if len(children) == 0 {
		return nil
	}
	return tx.Create(&children).Error
}

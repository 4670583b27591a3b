package slug

import (
	"fmt"
	"strings"
	"unicode"

	"gorm.io/gorm"
)

// Normalize reduces free text to a URL-safe slug: lowercase ASCII words
// joined by single hyphens, no leading or trailing hyphen. Returns "" when
// nothing survives; callers substitute their per-resource fallback base.
func Normalize(text string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen

	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case unicode.IsSpace(r), r == '-', r == '_', r == '.', r == '/':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// Taken reports whether a slug is already in use for the given model.
func Taken(db *gorm.DB, model interface{}, candidate string) (bool, error) {
	var count int64
	if err := db.Model(model).Where("slug = ?", candidate).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Allocate returns base if free, otherwise base-1, base-2, ... until a
// free slug is found. The probe loop is an optimization only: the slug
// column's unique index is the authoritative guard, and a write-time
// collision must surface as a conflict to the caller.
func Allocate(db *gorm.DB, model interface{}, base, fallback string) (string, error) {
	candidate := Normalize(base)
	if candidate == "" {
		candidate = fallback
	}

	taken, err := Taken(db, model, candidate)
	if err != nil {
		return "", err
	}
	if !taken {
		return candidate, nil
	}

	for i := 1; ; i++ {
		suffixed := fmt.Sprintf("%s-%d", candidate, i)
		taken, err := Taken(db, model, suffixed)
		if err != nil {
			return "", err
		}
		if !taken {
			return suffixed, nil
		}
	}
}

package dto

const (
	DefaultPublicPageSize = 24
	MaxPublicPageSize     = 60
)

// CursorQuery drives the public listings: an opaque cursor (the id of the
// last row of the previous page) plus a capped page size.
type CursorQuery struct {
	Cursor string `form:"cursor" json:"cursor"`
	Limit  int    `form:"limit" json:"limit" validate:"omitempty,min=1,max=60"`
}

// PageSize applies the default and the cap.
func (q *CursorQuery) PageSize() int {
	if q.Limit <= 0 {
		return DefaultPublicPageSize
	}
	if q.Limit > MaxPublicPageSize {
		return MaxPublicPageSize
	}
	return q.Limit
}

// CursorPage wraps one page of a public listing. NextCursor is "" on the
// last page.
type CursorPage[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// OffsetQuery drives the submission listing.
type OffsetQuery struct {
	Page  int `form:"page" json:"page" validate:"omitempty,min=1"`
	Limit int `form:"limit" json:"limit" validate:"omitempty,min=1,max=100"`
}

func (q *OffsetQuery) LimitOffset() (int, int) {
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}
	return limit, (page - 1) * limit
}

// OffsetPage wraps one page of an offset-paginated listing.
type OffsetPage[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

package domain

import "time"

// Book is a single catalog record. The ID is assigned by the database and
// immutable afterwards.
type Book struct {
	ID         int64
	Title      string
	Author     string
	CoverImage *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BookUpdateParams describes a partial update. A nil field is left unchanged.
type BookUpdateParams struct {
	Title      *string
	Author     *string
	CoverImage *string
}

// IsEmpty reports whether no field would change.
func (p BookUpdateParams) IsEmpty() bool {
	return p.Title == nil && p.Author == nil && p.CoverImage == nil
}

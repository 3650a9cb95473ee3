package catalog

import (
	"strings"

	"github.com/heartmarshall/bookshelf-backend/internal/adapter/postgres/book"
	"github.com/heartmarshall/bookshelf-backend/internal/domain"
)

const maxFieldLen = 255

// CreateBookInput holds the parameters for creating a book.
type CreateBookInput struct {
	Title      string
	Author     string
	CoverImage *string
}

// Validate checks all fields and collects all errors.
func (i CreateBookInput) Validate() error {
	var errs []domain.FieldError

	errs = appendRequiredError(errs, "title", i.Title)
	errs = appendRequiredError(errs, "author", i.Author)

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateBookInput holds the parameters for a partial update.
// A nil field is left unchanged.
type UpdateBookInput struct {
	Title      *string
	Author     *string
	CoverImage *string
}

// Validate checks all fields and collects all errors.
func (i UpdateBookInput) Validate() error {
	var errs []domain.FieldError

	if i.Title == nil && i.Author == nil && i.CoverImage == nil {
		errs = append(errs, domain.FieldError{Field: "input", Message: "at least one field must be provided"})
	}
	if i.Title != nil {
		errs = appendRequiredError(errs, "title", *i.Title)
	}
	if i.Author != nil {
		errs = appendRequiredError(errs, "author", *i.Author)
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ListBooksInput holds list query parameters. Nil means "not provided";
// defaults are applied at the repository layer.
type ListBooksInput struct {
	Search    *string
	Page      *int
	Limit     *int
	SortBy    *string
	SortOrder *string
}

// Validate checks all fields and collects all errors, mirroring the public
// list contract: page/limit positive, sortBy in {title, author},
// sortOrder in {asc, desc}.
func (i ListBooksInput) Validate() error {
	var errs []domain.FieldError

	if i.Page != nil && *i.Page < 1 {
		errs = append(errs, domain.FieldError{Field: "page", Message: "must be a positive integer"})
	}
	if i.Limit != nil && *i.Limit < 1 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be a positive integer"})
	}
	if i.SortBy != nil && *i.SortBy != "title" && *i.SortBy != "author" {
		errs = append(errs, domain.FieldError{Field: "sortBy", Message: "must be one of: title, author"})
	}
	if i.SortOrder != nil && *i.SortOrder != "asc" && *i.SortOrder != "desc" {
		errs = append(errs, domain.FieldError{Field: "sortOrder", Message: "must be one of: asc, desc"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func (i ListBooksInput) toFilter() book.Filter {
	var f book.Filter
	f.Search = i.Search
	if i.Page != nil {
		f.Page = *i.Page
	}
	if i.Limit != nil {
		f.Limit = *i.Limit
	}
	if i.SortBy != nil {
		f.SortBy = *i.SortBy
	}
	if i.SortOrder != nil {
		f.SortOrder = *i.SortOrder
	}
	return f
}

func appendRequiredError(errs []domain.FieldError, field, value string) []domain.FieldError {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return append(errs, domain.FieldError{Field: field, Message: "required"})
	}
	if len(trimmed) > maxFieldLen {
		return append(errs, domain.FieldError{Field: field, Message: "max 255 characters"})
	}
	return errs
}

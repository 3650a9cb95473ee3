package webhook

import (
	"net/url"

	"github.com/heartmarshall/bookshelf-backend/internal/domain"
)

// RegisterInput holds the parameters for registering a webhook subscription.
type RegisterInput struct {
	URL   string
	Event string
}

// Validate checks all fields and collects all errors.
func (i RegisterInput) Validate() error {
	var errs []domain.FieldError

	if i.URL == "" {
		errs = append(errs, domain.FieldError{Field: "url", Message: "required"})
	} else if !isValidTarget(i.URL) {
		errs = append(errs, domain.FieldError{Field: "url", Message: "must be an absolute http(s) URL"})
	}

	if _, err := domain.ParseEventKind(i.Event); err != nil {
		errs = append(errs, domain.FieldError{Field: "event", Message: "must be one of: book.created, book.updated, book.deleted"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func isValidTarget(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

package graphql

import (
	"errors"

	"github.com/heartmarshall/bookshelf-backend/internal/domain"
)

// resolverError decorates a domain error with a machine-readable code in the
// GraphQL error extensions.
type resolverError struct {
	err    error
	code   string
	fields []domain.FieldError
}

func (e *resolverError) Error() string { return e.err.Error() }

func (e *resolverError) Unwrap() error { return e.err }

func (e *resolverError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": e.code}
	if len(e.fields) > 0 {
		ext["fields"] = e.fields
	}
	return ext
}

// wrapError maps domain errors to GraphQL error codes. Unknown errors are
// hidden behind a generic INTERNAL code; the handler logs them.
func wrapError(err error) error {
	var ve *domain.ValidationError

	switch {
	case errors.As(err, &ve):
		return &resolverError{err: err, code: "VALIDATION", fields: ve.Errors}
	case errors.Is(err, domain.ErrValidation):
		return &resolverError{err: err, code: "VALIDATION"}
	case errors.Is(err, domain.ErrNotFound):
		return &resolverError{err: err, code: "NOT_FOUND"}
	case errors.Is(err, domain.ErrUnauthorized):
		return &resolverError{err: err, code: "UNAUTHENTICATED"}
	case errors.Is(err, domain.ErrForbidden):
		return &resolverError{err: err, code: "FORBIDDEN"}
	case errors.Is(err, domain.ErrAlreadyExists):
		return &resolverError{err: err, code: "ALREADY_EXISTS"}
	default:
		return &resolverError{err: errors.New("internal error"), code: "INTERNAL"}
	}
}

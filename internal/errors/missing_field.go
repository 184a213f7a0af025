package errors

import "errors"

// MissingFieldError marks a search record that lacks one of the fields
// required to identify an author or a book.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "missing critical field: " + e.Field
}

// NewMissingFieldError creates a MissingFieldError for the named field.
func NewMissingFieldError(field string) *MissingFieldError {
	return &MissingFieldError{Field: field}
}

// MissingField returns the field named by a MissingFieldError anywhere in
// err's chain.
func MissingField(err error) (string, bool) {
	var fieldErr *MissingFieldError
	if errors.As(err, &fieldErr) {
		return fieldErr.Field, true
	}
	return "", false
}

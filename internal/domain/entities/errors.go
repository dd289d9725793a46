package entities

import (
	"github.com/cockroachdb/errors"
)

// Error kinds. Only ErrValidation aborts a request; the others are absorbed
// by the stage that produced them.
var (
	ErrValidation        = errors.New("validation error")
	ErrScanExecution     = errors.New("scan execution error")
	ErrScanOutput        = errors.New("scan output error")
	ErrParse             = errors.New("parse error")
	ErrSuggestionService = errors.New("suggestion service error")
	ErrCleanup           = errors.New("cleanup error")
)

// NewValidationError creates a validation error whose text is msg
func NewValidationError(msg string) error {
	return errors.Mark(errors.New(msg), ErrValidation)
}

// NewValidationErrorf creates a formatted validation error
func NewValidationErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrValidation)
}

// AsValidation marks an existing error as a validation failure
func AsValidation(err error, msg string) error {
	return errors.Mark(errors.Wrap(err, msg), ErrValidation)
}

// IsValidation reports whether err is a validation failure
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

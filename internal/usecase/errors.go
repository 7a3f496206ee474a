package usecase

import (
	"errors"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// validationError turns a validator failure into a 400 listing each field.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperror.Validation("Validation failed", validation.FormatValidationErrors(err))
	}
	return apperror.BadRequest("Invalid request")
}

// notFoundOr maps a repository lookup failure to 404 with message, or to 500.
func notFoundOr(err error, message string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.NotFound(message)
	}
	return apperror.Internal(err)
}

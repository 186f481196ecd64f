package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/taskmaster/taskmaster-api/internal/api/shared"
	"github.com/taskmaster/taskmaster-api/internal/domain"
	"github.com/taskmaster/taskmaster-api/internal/service/auth"
	"github.com/taskmaster/taskmaster-api/internal/store"
)

// FieldErrors maps field names to lists of error messages, matching the
// response shape clients expect for validation failures.
type FieldErrors map[string][]string

// nonFieldErrorsKey is the key used for errors not tied to a single field.
const nonFieldErrorsKey = "non_field_errors"

// RespondWithFieldErrors writes a 400 response whose body is a map of
// field names to error messages.
func RespondWithFieldErrors(w http.ResponseWriter, r *http.Request, fieldErrors FieldErrors) {
	shared.RespondWithJSON(w, r, http.StatusBadRequest, fieldErrors)
}

// RespondWithNonFieldError writes a 400 response with a single error
// message under the non_field_errors key.
func RespondWithNonFieldError(w http.ResponseWriter, r *http.Request, message string) {
	RespondWithFieldErrors(w, r, FieldErrors{nonFieldErrorsKey: {message}})
}

// ValidationFieldErrors converts validator errors into field-scoped error
// messages keyed by the offending field's JSON name.
func ValidationFieldErrors(errs validator.ValidationErrors) FieldErrors {
	fieldErrors := make(FieldErrors, len(errs))
	for _, fieldErr := range errs {
		field := fieldErr.Field()
		if field == "" {
			field = nonFieldErrorsKey
		}
		fieldErrors[field] = append(fieldErrors[field], validationMessage(fieldErr))
	}
	return fieldErrors
}

func validationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fieldErr.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fieldErr.Param())
	default:
		return "This field is invalid."
	}
}

// MapErrorToStatusCode determines the appropriate HTTP status code for a
// service or store error.
func MapErrorToStatusCode(err error) int {
	switch {
	case store.IsNotFoundError(err):
		return http.StatusNotFound
	case store.IsDuplicateError(err):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidTaskStatus),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for the given error.
// Internal errors are replaced with a generic message so that database or
// infrastructure details never leak to clients.
func GetSafeErrorMessage(err error, defaultMessage string) string {
	status := MapErrorToStatusCode(err)
	if status >= http.StatusInternalServerError {
		return "An internal error occurred."
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}

	switch {
	case store.IsNotFoundError(err):
		return "Not found."
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingToken):
		return "Invalid token."
	}

	if defaultMessage != "" {
		return defaultMessage
	}
	return err.Error()
}

// HandleServiceError maps an error to a status code and writes a safe
// response body, logging the underlying error.
func HandleServiceError(w http.ResponseWriter, r *http.Request, err error, defaultMessage string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err, defaultMessage)
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

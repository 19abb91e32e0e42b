package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/lingual/internal/api/shared"
	"github.com/phrazzld/lingual/internal/flash"
	"github.com/phrazzld/lingual/internal/quiz"
	"github.com/phrazzld/lingual/internal/quiz/session"
)

// ErrInvalidRequest marks request bodies or path parameters that could not be parsed.
var ErrInvalidRequest = errors.New("invalid request")

// MapErrorToStatusCode maps core errors to HTTP status codes without leaking
// internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, flash.ErrNotificationNotFound),
		errors.Is(err, session.ErrUnknownContainer),
		errors.Is(err, quiz.ErrQuizNotFound):
		return http.StatusNotFound

	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, flash.ErrInvalidCategory),
		errors.Is(err, session.ErrInvalidContainer),
		errors.Is(err, session.ErrOptionOutOfRange),
		errors.Is(err, quiz.ErrEmptyBank),
		errors.Is(err, quiz.ErrMalformedQuiz):
		return http.StatusBadRequest

	case errors.Is(err, session.ErrNotAccepting),
		errors.Is(err, session.ErrNotAnswered),
		errors.Is(err, session.ErrSuperseded):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, flash.ErrNotificationNotFound):
		return "Notification not found"
	case errors.Is(err, flash.ErrInvalidCategory):
		return "Invalid notification category"
	case errors.Is(err, session.ErrUnknownContainer):
		return "Quiz container not found"
	case errors.Is(err, quiz.ErrQuizNotFound):
		return "Quiz not found"
	case errors.Is(err, session.ErrInvalidContainer):
		return "Quiz container needs a lesson and a quiz id"
	case errors.Is(err, session.ErrOptionOutOfRange):
		return "Option out of range"
	case errors.Is(err, quiz.ErrEmptyBank),
		errors.Is(err, quiz.ErrMalformedQuiz):
		return "Invalid quiz definition"
	case errors.Is(err, session.ErrNotAnswered):
		return "Answer the question first"
	case errors.Is(err, session.ErrSuperseded):
		return "Quiz was reloaded"
	case errors.Is(err, session.ErrNotAccepting):
		return "Quiz is not accepting input"
	case errors.Is(err, ErrInvalidRequest):
		return "Invalid request format"
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns a validator error into a short message that
// names the offending field.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example: "Key: 'ShowFlashRequest.Message' Error:Field validation for 'Message' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gte":
		return "too small"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the error response for err. An empty message uses
// GetSafeErrorMessage.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), message, err)
}

// decodeAndValidate reads the JSON body into v and validates it, writing the
// 400 response itself on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		HandleAPIError(w, r, fmt.Errorf("%w: %v", ErrInvalidRequest, err), "")
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		HandleAPIError(w, r, fmt.Errorf("%w: %v", ErrInvalidRequest, err), SanitizeValidationError(err))
		return false
	}
	return true
}

package response

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lista-app/lista/internal/domain"
)

// Error codes carried in the error envelope. Clients branch on these, not on
// HTTP status alone.
const (
	CodeValidationError     = "VALIDATION_ERROR"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeEmailTaken          = "EMAIL_TAKEN"
	CodeListStatusInvalid   = "LIST_STATUS_INVALID"
	CodeAutosaveConflict    = "AUTOSAVE_CONFLICT"
	CodeEditingStateInvalid = "EDITING_STATE_INVALID"
	CodeInternal            = "INTERNAL"
)

// rfc3339Milli is the wire format for timestamps in error details, matching
// the precision of the version token.
const rfc3339Milli = "2006-01-02T15:04:05.000Z07:00"

// FromDomainError translates a domain error into the matching HTTP response.
// Unknown errors become a 500 without leaking the underlying message.
func FromDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var conflict *domain.VersionConflictError
	if errors.As(err, &conflict) {
		Error(w, http.StatusConflict, CodeAutosaveConflict,
			"list was modified by another client",
			map[string]string{
				"remoteUpdatedAt": conflict.RemoteUpdatedAt.UTC().Format(rfc3339Milli),
			})
		return
	}

	var transition *domain.StatusTransitionError
	if errors.As(err, &transition) {
		Error(w, http.StatusConflict, CodeListStatusInvalid, transition.Error(),
			map[string]string{
				"from": string(transition.From),
				"to":   string(transition.To),
			})
		return
	}

	switch {
	case errors.Is(err, domain.ErrListNotFound),
		errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrProductNotFound):
		Error(w, http.StatusNotFound, CodeNotFound, err.Error())

	case errors.Is(err, domain.ErrListForbidden):
		Error(w, http.StatusForbidden, CodeForbidden, "list belongs to another user")

	case errors.Is(err, domain.ErrUnauthorized):
		Unauthorized(w, "invalid credentials")

	case errors.Is(err, domain.ErrEmailTaken):
		Error(w, http.StatusConflict, CodeEmailTaken, "email is already registered")

	case errors.Is(err, domain.ErrStatusTransition):
		Error(w, http.StatusConflict, CodeListStatusInvalid, err.Error())

	case errors.Is(err, domain.ErrVersionConflict):
		Error(w, http.StatusConflict, CodeAutosaveConflict, "list was modified by another client")

	case errors.Is(err, domain.ErrEditingStateInvariant):
		// A broken editing triple is a programming fault, not a client error.
		slog.ErrorContext(r.Context(), "editing state invariant violated", "error", err)
		Error(w, http.StatusInternalServerError, CodeEditingStateInvalid, "internal server error")

	case errors.Is(err, domain.ErrTitleTooShort),
		errors.Is(err, domain.ErrTitleTooLong),
		errors.Is(err, domain.ErrItemNameRequired),
		errors.Is(err, domain.ErrInvalidListStatus):
		BadRequest(w, err.Error())

	default:
		slog.ErrorContext(r.Context(), "unhandled domain error in HTTP layer", "error", err)
		InternalError(w)
	}
}

// FormatTimestamp renders a timestamp in the wire format used across the API.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(rfc3339Milli)
}

// ParseTimestamp parses an RFC3339 timestamp from the wire.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

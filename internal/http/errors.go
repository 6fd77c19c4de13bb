package http

import (
	"errors"
	"net/http"

	"formcount/internal/core"
	"formcount/internal/log"
)

// writeError maps a service error onto its response. duplicateStatus is the
// status used for core.ErrDuplicateSubmission, which differs per route.
// Unexpected errors are logged and answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error, duplicateStatus int, component, operation string) {
	switch {
	case errors.Is(err, core.ErrValidation):
		BadRequestError(core.ValidationMessage(err)).Write(w)
	case errors.Is(err, core.ErrDuplicateSubmission):
		ErrorResponse(duplicateStatus, core.ErrDuplicateSubmission.Error()).Write(w)
	case errors.Is(err, core.ErrNotFound):
		NotFoundError(core.ErrNotFound.Error()).Write(w)
	case errors.Is(err, core.ErrInvalidCredentials):
		UnauthorizedError("Invalid credentials").Write(w)
	case errors.Is(err, core.ErrUnauthenticated):
		UnauthorizedError("Unauthenticated").Write(w)
	case errors.Is(err, core.ErrForbidden):
		ForbiddenError("Requires admin role").Write(w)
	default:
		log.LogError(r.Context(), "Request failed", err, component, operation, nil)
		InternalServerError().Write(w)
	}
}

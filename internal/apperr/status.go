package apperr

import "net/http"

// Status maps an error to its HTTP status and the short stable message
// returned to the caller. Internal detail stays in the logs.
func Status(err error) (int, string) {
	switch {
	case Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, "Invalid request body"
	case Is(err, ErrQuotaExceeded):
		return http.StatusForbidden, "Recipe quota exceeded"
	case Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "Rate limited. Please wait before generating again."
	case Is(err, ErrNotFound):
		return http.StatusNotFound, "Recipe not found"
	case Is(err, ErrUpstream),
		Is(err, ErrMalformedAIResponse),
		Is(err, ErrInvalidRecipeFormat):
		return http.StatusInternalServerError, "Failed to generate recipe"
	case Is(err, ErrStoreUnavailable):
		return http.StatusInternalServerError, "Service temporarily unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

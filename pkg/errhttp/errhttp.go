// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/blindtasting/pkg/auth"
	"github.com/ghuser/blindtasting/pkg/httpx"
	tastingdomain "github.com/ghuser/blindtasting/services/tasting/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Defaults to 500 Internal Server Error for unrecognized errors.
func WriteError(w http.ResponseWriter, err error) {
	httpx.JSONError(w, mapErrorToStatus(err), err.Error())
}

// WriteSafeError is WriteError with 5xx messages replaced by the status text
// in production.
func WriteSafeError(w http.ResponseWriter, err error, isProduction bool) {
	status := mapErrorToStatus(err)
	httpx.JSONError(w, status, httpx.SafeError(err, status, isProduction))
}

// Status returns the HTTP status WriteError would use for err.
func Status(err error) int {
	return mapErrorToStatus(err)
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, tastingdomain.ErrUnauthenticated), errors.Is(err, auth.ErrNoIdentity):
		return http.StatusUnauthorized // 401
	case errors.Is(err, tastingdomain.ErrNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, tastingdomain.ErrTastingAlreadyExists):
		return http.StatusConflict // 409
	case errors.Is(err, tastingdomain.ErrInvalidTasting),
		errors.Is(err, tastingdomain.ErrMalformed),
		errors.Is(err, tastingdomain.ErrWineNotRevealable),
		errors.Is(err, auth.ErrInvalidEmail):
		return http.StatusUnprocessableEntity // 422
	case errors.Is(err, tastingdomain.ErrBackendUnavailable):
		return http.StatusServiceUnavailable // 503
	default:
		return http.StatusInternalServerError // 500
	}
}

package server

import (
	"errors"
	"net/http"

	"Tunebox/core/account"
	"Tunebox/core/media"
	"Tunebox/logger"
	"Tunebox/repository"
)

var (
	errBadRequest = errors.New("bad request")
	errNotFound   = errors.New("not found")
)

// statusFor maps domain errors to an HTTP status and a client-safe message.
func statusFor(err error) (int, string) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge, "Request body too large"
	case errors.Is(err, errBadRequest),
		errors.Is(err, account.ErrMissingCredentials),
		errors.Is(err, account.ErrInvalidCredentialFormat),
		errors.Is(err, media.ErrValidation),
		errors.Is(err, media.ErrUnsupportedMediaType):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, account.ErrInvalidCredentials):
		return http.StatusUnauthorized, account.ErrInvalidCredentials.Error()
	case errors.Is(err, account.ErrLoginTaken):
		return http.StatusConflict, "Login already taken"
	case errors.Is(err, errNotFound),
		errors.Is(err, media.ErrNotFound),
		errors.Is(err, account.ErrUserNotFound),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// writeError logs err under tag and replies with its mapped status.
// Server-side failures are reported to the client generically.
func writeError(w http.ResponseWriter, r *http.Request, tag string, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(tag+" request failed",
			logger.String("path", r.URL.Path),
			logger.String("requestId", requestID(r)),
			logger.ErrorField(err))
	} else {
		logger.Warn(tag+" request rejected",
			logger.String("path", r.URL.Path),
			logger.Int("status", status),
			logger.ErrorField(err))
	}
	http.Error(w, msg, status)
}

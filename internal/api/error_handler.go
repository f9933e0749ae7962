package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mercatino/vendor-api/internal/api/metrics"
	"github.com/mercatino/vendor-api/internal/api/upload"
	"github.com/mercatino/vendor-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Counts partial commits, upload rejections and auth failures.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// A partial commit is a 500, but one that names the protocol and the
	// failed step so the inconsistency can be repaired out of band.
	var pc *domain.PartialCommitError
	if errors.As(err, &pc) {
		metrics.PartialCommitsTotal.WithLabelValues(pc.Protocol, pc.Step).Inc()
		log.Error().
			Err(pc.Err).
			Str("protocol", pc.Protocol).
			Str("step", pc.Step).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("lifecycle protocol partially committed")
		return http.StatusInternalServerError, pc.Error()
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		metrics.AuthFailuresTotal.WithLabelValues("credentials").Inc()
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrBadToken):
		metrics.AuthFailuresTotal.WithLabelValues("token").Inc()
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrGalleryFull):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrUsernameTaken):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUploadRejected):
		metrics.UploadsRejectedTotal.WithLabelValues(upload.Reason(err)).Inc()
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrVendorNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrAnnouncementNotFound),
		errors.Is(err, domain.ErrRequestNotFound):
		return http.StatusNotFound, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

package dashboard

import (
	"errors"
	"net/http"

	"github.com/GGCryptoh/jarvis-inc/internal/activity"
	"github.com/GGCryptoh/jarvis-inc/internal/fleet"
	"github.com/GGCryptoh/jarvis-inc/internal/release"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// statusFor maps an error to its HTTP status and public error kind.
// Anything unrecognised is an internal error.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, fleet.ErrBadRequest),
		errors.Is(err, activity.ErrBadRequest),
		errors.Is(err, release.ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, fleet.ErrNotFound),
		errors.Is(err, release.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, activity.ErrUnavailable):
		return http.StatusServiceUnavailable, "rate_check_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// writeError responds with the error kind only. Server-side failures are
// logged with their cause.
func writeError(c *gin.Context, log logrus.FieldLogger, err error) {
	status, kind := statusFor(err)
	if status >= http.StatusInternalServerError {
		requestLog(c, log).WithError(err).Error("request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": kind})
}

func badRequest(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "bad_request", "detail": detail})
}

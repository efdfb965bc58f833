package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookshelf/internal/application"
	"github.com/oksasatya/bookshelf/pkg/helpers"
	"github.com/oksasatya/bookshelf/pkg/response"
	"github.com/oksasatya/bookshelf/pkg/validation"
)

// conflictStatus lets a route report uniqueness failures as 400 instead of 409.
type conflictStatus int

const (
	conflictAsBadRequest conflictStatus = http.StatusBadRequest
	conflictAsConflict   conflictStatus = http.StatusConflict
)

func statusFor(kind application.Kind, conflict conflictStatus) int {
	switch kind {
	case application.KindValidation:
		return http.StatusBadRequest
	case application.KindUnauthorized:
		return http.StatusUnauthorized
	case application.KindInvalidToken:
		return http.StatusForbidden
	case application.KindConflict:
		if conflict == 0 {
			return http.StatusConflict
		}
		return int(conflict)
	case application.KindNotFound:
		return http.StatusNotFound
	case application.KindUnavailable:
		return http.StatusServiceUnavailable
	case application.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps a service error onto the response envelope. Internal causes are logged, never returned.
func writeError(c *gin.Context, logger *logrus.Logger, err error, conflict conflictStatus) {
	var ae *application.Error
	if !errors.As(err, &ae) || ae.Kind == application.KindInternal {
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"route":      c.FullPath(),
		})
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	var details any
	if len(ae.Details) > 0 {
		details = ae.Details
	}
	response.Error[any](c, statusFor(ae.Kind, conflict), ae.Message, details)
}

// bindJSON decodes the body into dst and writes a 400 on malformed input.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return false
	}
	return true
}

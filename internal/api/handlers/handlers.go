// Package handlers provides HTTP request handlers for the EduCert API. It
// includes handlers for setup, authentication, the account factory, institution
// accounts, the course manager, the certificate registry, and the event log,
// implementing RESTful endpoints with request validation.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/Educertfication/Educert-v2/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError translates a core failure into an HTTP response. Invariant
// violations keep their reason string; anything else is an internal error and
// only reaches the log.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	if kind, ok := service.KindOf(err); ok {
		c.JSON(statusForKind(kind), gin.H{"error": err.Error()})
		return
	}

	logger.Error("Request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func statusForKind(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindAuthorization:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindStateConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// callerID returns the authenticated wallet address set by the auth middleware
func callerID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	id, _ := userID.(string)
	return id
}

// pathID parses a numeric path parameter
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// parseQueryID parses a numeric query parameter
func parseQueryID(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Query(name), 10, 64)
}

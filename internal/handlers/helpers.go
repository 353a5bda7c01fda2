package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"social-service/internal/apperrors"
	"social-service/internal/middleware"
)

func requestIDFromHeader(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return requestID
}

// viewerFromContext extracts the authenticated viewer id set by the JWT
// middleware. Everything below the handler receives it as an explicit
// argument; core logic never reads ambient session state.
func viewerFromContext(c *gin.Context) (int64, bool) {
	if val, ok := c.Get(middleware.ViewerIDKey); ok {
		if viewerID, ok := val.(int64); ok && viewerID != 0 {
			return viewerID, true
		}
	}
	return 0, false
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, apperrors.Invalid("invalid " + name)
	}
	return id, nil
}

func pageParams(c *gin.Context) (limit, offset int) {
	limit = 50
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}

func respondError(c *gin.Context, err error) {
	c.JSON(apperrors.HTTPStatus(err), gin.H{"error": apperrors.Message(err)})
}

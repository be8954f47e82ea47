package httpapi

import (
	"errors"
	"net/http"

	"postapi/internal/core/post"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgPostNotFound    = "Post not found"
	msgTitleAndContent = "Title and content are required"
	msgNoData          = "No data provided"
	msgPostExists      = "Post already exists"
	msgInternal        = "Internal server error"
	msgDatabaseDown    = "Database unavailable"
)

// writeError maps a use case error onto a status code and a JSON body with a
// single "error" field.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	var validationErr *post.ValidationError
	switch {
	case errors.Is(err, post.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": msgPostNotFound})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
	case errors.Is(err, post.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": msgPostExists})
	default:
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
	}
}

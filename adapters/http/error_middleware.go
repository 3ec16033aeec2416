package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MinKhant07/Thumbnail/pkg/apperror"
	"github.com/MinKhant07/Thumbnail/pkg/logger"
)

// ErrorMiddleware converts errors attached by handlers into one JSON
// response. Typed kinds keep their status and message; anything else
// becomes a plain 500.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			status := apperror.ToHTTPStatus(appErr)
			if status >= http.StatusInternalServerError {
				log.Error("Request failed", appErr)
			}
			c.JSON(status, appErr.ToJSON())
			return
		}

		log.Error("Unhandled request error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

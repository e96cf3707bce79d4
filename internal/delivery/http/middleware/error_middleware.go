package middleware

import (
	"errors"
	"net/http"

	"cvchef-backend/internal/delivery/http/response"
	"cvchef-backend/pkg/apperror"
	"cvchef-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError {
				logger.Log.Error("Request failed", "status", appErr.Code, "message", appErr.Message,
					"error", appErr.Err, "path", c.FullPath(), "request_id", c.GetString("RequestID"))
			}
			response.Error(c, appErr.Code, appErr.Message, nil)
			return
		}

		// Never expose internal error details to clients.
		logger.Log.Error("Unhandled error", "error", err, "path", c.FullPath(), "request_id", c.GetString("RequestID"))
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}

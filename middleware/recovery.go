package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"yaapps/utils"

	"github.com/gin-gonic/gin"
)

func RecoveryMiddleware(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				utils.TrackError("http", "panic")
				log.Error("panic recovered",
					slog.Any("panic", err),
					slog.String("request_id", c.GetString(RequestIDKey)),
					slog.String("stack", string(debug.Stack())),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, &utils.Response{
					Status: http.StatusInternalServerError,
					Error:  "internal server error",
				})
			}
		}()
		c.Next()
	}
}

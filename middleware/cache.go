package middleware

import "github.com/gin-gonic/gin"

// CacheControlMiddleware sets Cache-Control on every response of the group.
func CacheControlMiddleware(value string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}

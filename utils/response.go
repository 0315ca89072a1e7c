package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope written for every non-redirect answer. Template
// names the page a browser front-end should draw with Data as its context.
type Response struct {
	Status   int         `json:"-"`                  // HTTP status code
	Template string      `json:"template,omitempty"` // Page to render
	Message  string      `json:"message,omitempty"`  // Optional message
	Error    string      `json:"error,omitempty"`    // Error message
	Data     interface{} `json:"data,omitempty"`     // Response data
}

// Render writes a page response.
func Render(c *gin.Context, status int, template string, data interface{}) {
	c.JSON(status, &Response{
		Status:   status,
		Template: template,
		Data:     data,
	})
}

// Success responses
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, &Response{
		Status: http.StatusOK,
		Data:   data,
	})
}

// Redirect answers with 302 Found, the status every form view uses.
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// Error responses
func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, &Response{
		Status: http.StatusUnauthorized,
		Error:  message,
	})
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, &Response{
		Status: http.StatusBadRequest,
		Error:  message,
	})
}

func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, &Response{
		Status: http.StatusNotFound,
		Error:  message,
	})
}

func InternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, &Response{
		Status: http.StatusInternalServerError,
		Error:  message,
	})
}

func ServiceUnavailable(c *gin.Context, data interface{}) {
	c.JSON(http.StatusServiceUnavailable, &Response{
		Status: http.StatusServiceUnavailable,
		Error:  "service unavailable",
		Data:   data,
	})
}

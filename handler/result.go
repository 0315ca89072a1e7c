package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"yaapps/middleware"
	"yaapps/model"
	"yaapps/usecase"
	"yaapps/utils"

	"github.com/gin-gonic/gin"
)

// Result is what every page handler produces: either a redirect or a
// rendered template with its context.
type Result struct {
	Location string
	Status   int
	Template string
	Context  gin.H
}

func Redirect(location string) Result {
	return Result{Location: location, Status: http.StatusFound}
}

func Render(status int, template string, context gin.H) Result {
	if context == nil {
		context = gin.H{}
	}
	return Result{Status: status, Template: template, Context: context}
}

func (r Result) IsRedirect() bool {
	return r.Location != ""
}

// Respond writes r to the client.
func Respond(c *gin.Context, r Result) {
	if r.IsRedirect() {
		utils.Redirect(c, r.Location)
		return
	}
	utils.Render(c, r.Status, r.Template, r.Context)
}

// fail maps usecase errors onto HTTP. ErrNotFound covers foreign entities
// too, so ownership violations read as 404.
func fail(c *gin.Context, log *slog.Logger, op string, err error) {
	if errors.Is(err, model.ErrNotFound) {
		utils.NotFound(c, "Not found")
		return
	}
	utils.TrackError("http", "internal")
	log.Error("request failed",
		slog.String("op", op),
		slog.String("request_id", c.GetString(middleware.RequestIDKey)),
		utils.Err(err),
	)
	utils.InternalError(c, "Internal server error")
}

// formErrors separates field errors (shown with the form) from anything
// else, which the caller must treat as a failure.
func formErrors(err error) (map[string][]string, bool) {
	if verr, ok := usecase.AsValidationError(err); ok {
		return verr.Fields, true
	}
	return utils.FormErrors(err)
}

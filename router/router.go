package router

import (
	"log/slog"

	"yaapps/handler"
	"yaapps/middleware"
	"yaapps/usecase"
	"yaapps/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are shared by both applications.
type Deps struct {
	Auth           *middleware.Authenticator
	Users          *usecase.UserService
	Health         *handler.HealthHandler
	Log            *slog.Logger
	AllowedOrigins []string
	MaxBodyBytes   int64
}

func newEngine(d Deps) *gin.Engine {
	utils.InitValidator()

	r := gin.New()
	r.Use(
		middleware.RequestTracingMiddleware(),
		middleware.RequestLogger(d.Log),
		middleware.RecoveryMiddleware(d.Log),
		middleware.MetricsMiddleware(),
		middleware.SecurityHeaders(),
		middleware.CORSMiddleware(d.AllowedOrigins),
		middleware.RequestSizeLimiter(d.MaxBodyBytes),
		d.Auth.Identify(),
	)

	r.NoRoute(func(c *gin.Context) {
		utils.NotFound(c, "Not found")
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if d.Health != nil {
		r.GET("/health/", d.Health.Health)
	}

	auth := handler.NewAuthHandler(d.Users, d.Auth, d.Log)
	authGroup := r.Group("/auth", middleware.CacheControlMiddleware("no-store"))
	{
		authGroup.GET("/login/", auth.LoginForm)
		authGroup.POST("/login/", auth.Login)
		authGroup.GET("/logout/", auth.Logout)
		authGroup.POST("/logout/", auth.Logout)
		authGroup.GET("/signup/", auth.SignupForm)
		authGroup.POST("/signup/", auth.Signup)
		authGroup.POST("/token/", auth.Token)
		authGroup.POST("/token/refresh/", auth.Refresh)
	}
	return r
}

// NewNotesRouter wires the notes application.
func NewNotesRouter(d Deps, notes *usecase.NotesService) *gin.Engine {
	r := newEngine(d)
	h := handler.NewNoteHandler(notes, d.Log)

	r.GET("/", h.Home)

	private := r.Group("/",
		middleware.LoginRequired(handler.LoginURL),
		middleware.CacheControlMiddleware("private, no-store"),
	)
	{
		private.GET("/add/", h.AddForm)
		private.POST("/add/", h.Add)
		private.GET("/notes/", h.List)
		private.GET("/done/", h.Done)
		private.GET("/note/:slug/", h.Detail)
		private.GET("/edit/:slug/", h.EditForm)
		private.POST("/edit/:slug/", h.Edit)
		private.GET("/delete/:slug/", h.DeleteConfirm)
		private.POST("/delete/:slug/", h.Delete)
		private.DELETE("/delete/:slug/", h.Delete)
	}
	return r
}

// NewNewsRouter wires the news application. Reading is public; commenting
// needs a login.
func NewNewsRouter(d Deps, news *usecase.NewsService) *gin.Engine {
	r := newEngine(d)
	h := handler.NewNewsHandler(news, d.Log)
	login := middleware.LoginRequired(handler.LoginURL)

	r.GET("/", h.Home)
	r.GET("/news/:id/", h.Detail)
	r.POST("/news/:id/", login, h.AddComment)

	private := r.Group("/", login, middleware.CacheControlMiddleware("private, no-store"))
	{
		private.GET("/edit_comment/:id/", h.EditCommentForm)
		private.POST("/edit_comment/:id/", h.EditComment)
		private.GET("/delete_comment/:id/", h.DeleteCommentConfirm)
		private.POST("/delete_comment/:id/", h.DeleteComment)
		private.DELETE("/delete_comment/:id/", h.DeleteComment)
	}
	return r
}

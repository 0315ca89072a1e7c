package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"yaapps/dto"
	"yaapps/middleware"
	"yaapps/services"
	"yaapps/usecase"
	"yaapps/utils"

	"github.com/gin-gonic/gin"
)

const (
	tplLogin  = "registration/login.html"
	tplLogout = "registration/logged_out.html"
	tplSignup = "registration/signup.html"

	LoginURL = "/auth/login/"

	MsgInvalidLogin = "Пожалуйста, введите правильные имя пользователя и пароль. Оба поля могут быть чувствительны к регистру."
)

type AuthHandler struct {
	users *usecase.UserService
	auth  *middleware.Authenticator
	log   *slog.Logger
}

func NewAuthHandler(users *usecase.UserService, auth *middleware.Authenticator, log *slog.Logger) *AuthHandler {
	return &AuthHandler{users: users, auth: auth, log: log}
}

func (h *AuthHandler) LoginForm(c *gin.Context) {
	Respond(c, Render(http.StatusOK, tplLogin, gin.H{
		"form": dto.NewForm(dto.LoginForm{Next: c.Query("next")}, nil),
	}))
}

func (h *AuthHandler) Login(c *gin.Context) {
	const op = "handler.AuthHandler.Login"

	var form dto.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		fields, ok := utils.FormErrors(err)
		if !ok {
			utils.BadRequest(c, "Invalid request body")
			return
		}
		h.loginFailed(c, form, fields)
		return
	}
	if form.Next == "" {
		form.Next = c.Query("next")
	}

	user, err := h.users.Authenticate(c.Request.Context(), form.Username, form.Password)
	if errors.Is(err, usecase.ErrInvalidCredentials) {
		utils.TrackAuthAttempt("failure", "login")
		h.loginFailed(c, form, map[string][]string{"__all__": {MsgInvalidLogin}})
		return
	}
	if err != nil {
		fail(c, h.log, op, err)
		return
	}

	if _, err := h.auth.CreateSession(c, user); err != nil {
		fail(c, h.log, op, err)
		return
	}
	utils.TrackAuthAttempt("success", "login")
	Respond(c, Redirect(middleware.SafeNext(form.Next)))
}

func (h *AuthHandler) loginFailed(c *gin.Context, form dto.LoginForm, fields map[string][]string) {
	form.Password = ""
	Respond(c, Render(http.StatusOK, tplLogin, gin.H{
		"form": dto.NewForm(form, fields),
	}))
}

// Logout works for anonymous visitors too and always renders the page.
func (h *AuthHandler) Logout(c *gin.Context) {
	const op = "handler.AuthHandler.Logout"

	if err := h.auth.EndSession(c); err != nil {
		fail(c, h.log, op, err)
		return
	}
	Respond(c, Render(http.StatusOK, tplLogout, nil))
}

func (h *AuthHandler) SignupForm(c *gin.Context) {
	Respond(c, Render(http.StatusOK, tplSignup, gin.H{
		"form": dto.NewForm(dto.SignupForm{}, nil),
	}))
}

func (h *AuthHandler) Signup(c *gin.Context) {
	const op = "handler.AuthHandler.Signup"

	var form dto.SignupForm
	if err := c.ShouldBind(&form); err != nil {
		fields, ok := utils.FormErrors(err)
		if !ok {
			utils.BadRequest(c, "Invalid request body")
			return
		}
		h.signupFailed(c, form, fields)
		return
	}

	if _, err := h.users.Register(c.Request.Context(), form); err != nil {
		if verr, ok := usecase.AsValidationError(err); ok {
			h.signupFailed(c, form, verr.Fields)
			return
		}
		fail(c, h.log, op, err)
		return
	}
	Respond(c, Redirect(LoginURL))
}

func (h *AuthHandler) signupFailed(c *gin.Context, form dto.SignupForm, fields map[string][]string) {
	form.Password1, form.Password2 = "", ""
	Respond(c, Render(http.StatusOK, tplSignup, gin.H{
		"form": dto.NewForm(form, fields),
	}))
}

// Token exchanges credentials for an access/refresh pair.
func (h *AuthHandler) Token(c *gin.Context) {
	const op = "handler.AuthHandler.Token"

	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackAuthAttempt("failure", "validation")
		utils.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, usecase.ErrInvalidCredentials) {
		utils.TrackAuthAttempt("failure", "token")
		utils.Unauthorized(c, "Invalid credentials")
		return
	}
	if err != nil {
		fail(c, h.log, op, err)
		return
	}

	pair, err := h.auth.Tokens.GeneratePair(user.UserID, user.Username)
	if err != nil {
		fail(c, h.log, op, err)
		return
	}
	utils.TrackAuthAttempt("success", "token")
	c.JSON(http.StatusOK, pair)
}

// Refresh rotates the pair; the presented refresh token is revoked.
func (h *AuthHandler) Refresh(c *gin.Context) {
	const op = "handler.AuthHandler.Refresh"
	ctx := c.Request.Context()

	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	claims, err := h.auth.Tokens.Parse(req.RefreshToken, services.TokenTypeRefresh)
	if err != nil {
		utils.TrackAuthAttempt("failure", "refresh")
		utils.Unauthorized(c, "Invalid refresh token")
		return
	}

	revoked, err := h.auth.Blacklist.IsBlacklisted(ctx, req.RefreshToken)
	if err != nil {
		fail(c, h.log, op, err)
		return
	}
	if revoked {
		utils.TrackAuthAttempt("failure", "refresh_revoked")
		utils.Unauthorized(c, "Refresh token has been revoked")
		return
	}

	if err := h.auth.Blacklist.Blacklist(ctx, req.RefreshToken, claims.ExpiresAt.Time); err != nil {
		fail(c, h.log, op, err)
		return
	}

	pair, err := h.auth.Tokens.GeneratePair(claims.UserID, claims.Username)
	if err != nil {
		fail(c, h.log, op, err)
		return
	}
	utils.TrackAuthAttempt("success", "refresh")
	c.JSON(http.StatusOK, pair)
}

package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"yaapps/model"
	"yaapps/services"
	"yaapps/usecase"
	"yaapps/utils"

	"github.com/gin-gonic/gin"
)

const (
	SessionCookie = "session_id"
	identityKey   = "identity"
	sessionKey    = "session"
	tokenKey      = "access_token"
)

// Authenticator resolves the requester from a session cookie or a bearer
// token and owns the session lifecycle.
type Authenticator struct {
	Sessions          SessionStore
	Tokens            *services.TokenManager
	Blacklist         services.TokenBlacklist
	SessionTTL        time.Duration
	InactivityTimeout time.Duration
	MaxSessions       int
	CookieSecure      bool
	Log               *slog.Logger
	Now               func() time.Time
}

// Identify never rejects a request. It attaches a usecase.Identity that is
// anonymous when nothing valid was presented.
func (a *Authenticator) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := a.fromBearer(c); ok {
			c.Set(identityKey, id)
			c.Next()
			return
		}
		if id, ok := a.fromSession(c); ok {
			c.Set(identityKey, id)
		}
		c.Next()
	}
}

func (a *Authenticator) fromBearer(c *gin.Context) (usecase.Identity, bool) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return usecase.Identity{}, false
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := a.Tokens.Parse(tokenString, services.TokenTypeAccess)
	if err != nil {
		utils.TrackAuthAttempt("failure", "bearer")
		return usecase.Identity{}, false
	}

	blacklisted, err := a.Blacklist.IsBlacklisted(c.Request.Context(), tokenString)
	if err != nil {
		a.Log.Warn("token blacklist unavailable", utils.Err(err))
	}
	if blacklisted {
		utils.TrackAuthAttempt("failure", "bearer_revoked")
		return usecase.Identity{}, false
	}

	c.Set(tokenKey, tokenString)
	return usecase.Identity{UserID: claims.UserID, Username: claims.Username}, true
}

func (a *Authenticator) fromSession(c *gin.Context) (usecase.Identity, bool) {
	sessionID, err := c.Cookie(SessionCookie)
	if err != nil || sessionID == "" {
		return usecase.Identity{}, false
	}

	ctx := c.Request.Context()
	session, err := a.Sessions.GetSession(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			a.Log.Error("failed to load session", utils.Err(err))
		}
		a.clearCookie(c)
		return usecase.Identity{}, false
	}

	now := a.Now()
	if !session.IsActive || now.After(session.ExpiresAt) {
		a.clearCookie(c)
		return usecase.Identity{}, false
	}

	if a.InactivityTimeout > 0 && now.Sub(session.LastActivityAt) > a.InactivityTimeout {
		session.IsActive = false
		if err := a.Sessions.UpdateSession(ctx, session); err != nil {
			a.Log.Warn("failed to end idle session", utils.Err(err))
		}
		a.clearCookie(c)
		return usecase.Identity{}, false
	}

	// one write per minute of activity is plenty
	if now.Sub(session.LastActivityAt) > time.Minute {
		session.LastActivityAt = now
		if err := a.Sessions.UpdateSession(ctx, session); err != nil {
			a.Log.Warn("failed to touch session", utils.Err(err))
		}
	}

	c.Set(sessionKey, session)
	return usecase.Identity{UserID: session.UserID, Username: session.Username}, true
}

// CurrentIdentity returns the identity set by Identify, anonymous if none.
func CurrentIdentity(c *gin.Context) usecase.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(usecase.Identity); ok {
			return id
		}
	}
	return usecase.Identity{}
}

// LoginRequired redirects anonymous requests to loginURL, keeping the
// original path in "next".
func LoginRequired(loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentIdentity(c).IsAuthenticated() {
			c.Next()
			return
		}
		c.Redirect(http.StatusFound, LoginRedirectURL(loginURL, c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// LoginRedirectURL builds "<loginURL>?next=<path>" leaving slashes readable.
func LoginRedirectURL(loginURL, next string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
	return loginURL + "?next=" + escaped
}

// SafeNext accepts only local absolute paths as redirect targets.
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

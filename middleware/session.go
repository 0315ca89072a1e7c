package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"yaapps/model"
	"yaapps/utils"

	"github.com/gin-gonic/gin"
)

type SessionStore interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, sessionID string) (*model.Session, error)
	UpdateSession(ctx context.Context, session *model.Session) error
	EndSession(ctx context.Context, sessionID string) error
	CountActiveSessions(ctx context.Context, userID string) (int, error)
	EndLeastActiveSession(ctx context.Context, userID string) error
}

// CreateSession starts a browser session for user and sets the cookie. When
// the user is at the session limit the least recently active one is ended.
func (a *Authenticator) CreateSession(c *gin.Context, user *model.User) (*model.Session, error) {
	const op = "middleware.Authenticator.CreateSession"
	ctx := c.Request.Context()

	if a.MaxSessions > 0 {
		count, err := a.Sessions.CountActiveSessions(ctx, user.UserID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		for ; count >= a.MaxSessions; count-- {
			if err := a.Sessions.EndLeastActiveSession(ctx, user.UserID); err != nil {
				if errors.Is(err, model.ErrNotFound) {
					break
				}
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	userAgent := c.Request.UserAgent()
	browser, os, device := utils.ParseUserAgent(userAgent)
	now := a.Now()

	session := &model.Session{
		SessionID:      utils.NewID(),
		UserID:         user.UserID,
		Username:       user.Username,
		DisplayName:    utils.GenerateSessionName(userAgent, c.ClientIP()),
		DeviceInfo:     fmt.Sprintf("%s on %s (%s)", browser, os, device),
		CreatedAt:      now,
		ExpiresAt:      now.Add(a.SessionTTL),
		LastActivityAt: now,
		IPAddress:      c.ClientIP(),
		IsActive:       true,
	}

	if err := a.Sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, session.SessionID, int(a.SessionTTL.Seconds()), "/", "", a.CookieSecure, true)
	return session, nil
}

// EndSession ends the cookie session, if any, and revokes the bearer token
// used for this request.
func (a *Authenticator) EndSession(c *gin.Context) error {
	ctx := c.Request.Context()

	if v, ok := c.Get(sessionKey); ok {
		if session, ok := v.(*model.Session); ok {
			if err := a.Sessions.EndSession(ctx, session.SessionID); err != nil && !errors.Is(err, model.ErrNotFound) {
				return fmt.Errorf("middleware.Authenticator.EndSession: %w", err)
			}
		}
	}
	a.clearCookie(c)

	if token := c.GetString(tokenKey); token != "" {
		if err := a.Blacklist.Blacklist(ctx, token, a.Tokens.ExpiresAt(token)); err != nil {
			return fmt.Errorf("middleware.Authenticator.EndSession: %w", err)
		}
	}
	return nil
}

func (a *Authenticator) clearCookie(c *gin.Context) {
	c.SetCookie(SessionCookie, "", -1, "/", "", a.CookieSecure, true)
}

package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"yaapps/handler"
	"yaapps/middleware"
	"yaapps/model"
	"yaapps/router"
	"yaapps/services"
	"yaapps/testutils"
	"yaapps/usecase"
	"yaapps/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testPassword = "s3cret!pass"

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	deps     router.Deps
	sessions *testutils.SessionStore
	users    *testutils.UserStore
	tokens   *services.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := testutils.Logger()
	sessions := testutils.NewSessionStore()
	users := testutils.NewUserStore()
	tokens := services.NewTokenManager("test-secret", "test", 15*time.Minute, time.Hour)

	auth := &middleware.Authenticator{
		Sessions:          sessions,
		Tokens:            tokens,
		Blacklist:         services.NopTokenBlacklist{},
		SessionTTL:        time.Hour,
		InactivityTimeout: time.Hour,
		MaxSessions:       5,
		Log:               log,
		Now:               time.Now,
	}
	return &testEnv{
		deps: router.Deps{
			Auth:         auth,
			Users:        usecase.NewUserService(users, nil, log),
			Health:       handler.NewHealthHandler("test", log).WithSessions(sessions),
			Log:          log,
			MaxBodyBytes: 1 << 20,
		},
		sessions: sessions,
		users:    users,
		tokens:   tokens,
	}
}

// login registers username and returns a cookie for a fresh session.
func (e *testEnv) login(t *testing.T, username string) (*http.Cookie, usecase.Identity) {
	t.Helper()
	ctx := context.Background()

	user, err := e.users.FindByUsername(ctx, username)
	if err != nil {
		hashed, err := services.HashPassword(testPassword)
		require.NoError(t, err)
		user = &model.User{UserID: utils.NewID(), Username: username, Password: hashed, CreatedAt: time.Now()}
		require.NoError(t, e.users.Create(ctx, user))
	}

	now := time.Now()
	session := &model.Session{
		SessionID:      utils.NewID(),
		UserID:         user.UserID,
		Username:       user.Username,
		CreatedAt:      now,
		ExpiresAt:      now.Add(time.Hour),
		LastActivityAt: now,
		IsActive:       true,
	}
	require.NoError(t, e.sessions.CreateSession(ctx, session))

	return &http.Cookie{Name: middleware.SessionCookie, Value: session.SessionID},
		usecase.Identity{UserID: user.UserID, Username: user.Username}
}

func do(r http.Handler, method, target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type page struct {
	Template string                 `json:"template"`
	Error    string                 `json:"error"`
	Data     map[string]interface{} `json:"data"`
}

func decodePage(t *testing.T, w *httptest.ResponseRecorder) page {
	t.Helper()
	var p page
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p), w.Body.String())
	return p
}

// formErrors digs data.form.errors[field] out of a rendered page.
func formErrors(t *testing.T, p page, field string) []string {
	t.Helper()
	form, ok := p.Data["form"].(map[string]interface{})
	require.True(t, ok, "page has no form")
	errs, _ := form["errors"].(map[string]interface{})
	raw, _ := errs[field].([]interface{})
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		out = append(out, v.(string))
	}
	return out
}

func loginRedirect(next string) string {
	return middleware.LoginRedirectURL(handler.LoginURL, next)
}

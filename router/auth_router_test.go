package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"yaapps/handler"
	"yaapps/middleware"
	"yaapps/router"
	"yaapps/services"
	"yaapps/testutils"
	"yaapps/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupLoginLogout(t *testing.T) {
	env := newTestEnv(t)
	r := router.NewNotesRouter(env.deps, usecase.NewNotesService(testutils.NewNoteStore(), nil, env.deps.Log))

	w := do(r, http.MethodPost, "/auth/signup/", url.Values{
		"username":  {"newbie"},
		"password1": {testPassword},
		"password2": {testPassword},
	}, nil)
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, handler.LoginURL, w.Header().Get("Location"))

	w = do(r, http.MethodPost, "/auth/login/?next=/notes/", url.Values{
		"username": {"newbie"},
		"password": {testPassword},
	}, nil)
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, "/notes/", w.Header().Get("Location"))

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "login must set the session cookie")

	w = do(r, http.MethodGet, "/notes/", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/auth/logout/", url.Values{}, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	session, err := env.sessions.GetSession(context.Background(), cookie.Value)
	require.NoError(t, err)
	assert.False(t, session.IsActive)

	w = do(r, http.MethodGet, "/notes/", nil, cookie)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestSignupErrors(t *testing.T) {
	env := newTestEnv(t)
	r := router.NewNotesRouter(env.deps, usecase.NewNotesService(testutils.NewNoteStore(), nil, env.deps.Log))
	env.login(t, "taken")

	tests := []struct {
		name  string
		form  url.Values
		field string
	}{
		{"passwords differ", url.Values{"username": {"u"}, "password1": {testPassword}, "password2": {testPassword + "x"}}, "password2"},
		{"weak password", url.Values{"username": {"u"}, "password1": {"abc"}, "password2": {"abc"}}, "password1"},
		{"username taken", url.Values{"username": {"taken"}, "password1": {testPassword}, "password2": {testPassword}}, "username"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/auth/signup/", tt.form, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.NotEmpty(t, formErrors(t, decodePage(t, w), tt.field))
		})
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	r := router.NewNotesRouter(env.deps, usecase.NewNotesService(testutils.NewNoteStore(), nil, env.deps.Log))
	env.login(t, "user")

	w := do(r, http.MethodPost, "/auth/login/", url.Values{"username": {"user"}, "password": {"wrong"}}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{handler.MsgInvalidLogin}, formErrors(t, decodePage(t, w), "__all__"))
}

func TestLoginIgnoresForeignNext(t *testing.T) {
	env := newTestEnv(t)
	r := router.NewNotesRouter(env.deps, usecase.NewNotesService(testutils.NewNoteStore(), nil, env.deps.Log))
	env.login(t, "user")

	w := do(r, http.MethodPost, "/auth/login/", url.Values{
		"username": {"user"},
		"password": {testPassword},
		"next":     {"https://evil.example/"},
	}, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestTokenFlow(t *testing.T) {
	env := newTestEnv(t)
	r := router.NewNotesRouter(env.deps, usecase.NewNotesService(testutils.NewNoteStore(), nil, env.deps.Log))
	env.login(t, "user")

	post := func(path string, body interface{}) *httptest.ResponseRecorder {
		raw, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := post("/auth/token/", map[string]string{"username": "user", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = post("/auth/token/", map[string]string{"username": "user", "password": testPassword})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var pair services.TokenPair
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))
	require.NotEmpty(t, pair.AccessToken)

	req := httptest.NewRequest(http.MethodGet, "/notes/", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// refresh tokens are not accepted as bearer credentials
	req = httptest.NewRequest(http.MethodGet, "/notes/", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusFound, rec.Code)

	w = post("/auth/token/refresh/", map[string]string{"refresh_token": pair.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t)
	r := router.NewNotesRouter(env.deps, usecase.NewNotesService(testutils.NewNoteStore(), nil, env.deps.Log))

	w := do(r, http.MethodGet, "/health/", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/no-such-page/", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

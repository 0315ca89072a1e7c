package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"yaapps/model"
	"yaapps/services"
	"yaapps/testutils"
	"yaapps/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestAuthenticator(store *testutils.SessionStore, now time.Time) *Authenticator {
	return &Authenticator{
		Sessions:          store,
		Tokens:            services.NewTokenManager("test-secret", "test", 15*time.Minute, time.Hour),
		Blacklist:         services.NopTokenBlacklist{},
		SessionTTL:        time.Hour,
		InactivityTimeout: 30 * time.Minute,
		MaxSessions:       5,
		Log:               testutils.Logger(),
		Now:               func() time.Time { return now },
	}
}

// whoami answers with the username Identify attached, or 401.
func whoami(a *Authenticator) *gin.Engine {
	r := gin.New()
	r.Use(a.Identify())
	r.GET("/whoami", func(c *gin.Context) {
		id := CurrentIdentity(c)
		if !id.IsAuthenticated() {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.String(http.StatusOK, id.Username)
	})
	return r
}

func TestLoginRedirectURL(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{"/add/", "/auth/login/?next=/add/"},
		{"/note/my-note/", "/auth/login/?next=/note/my-note/"},
		{"/news/1/?page=2", "/auth/login/?next=/news/1/%3Fpage%3D2"},
	}
	for _, tt := range tests {
		t.Run(tt.next, func(t *testing.T) {
			assert.Equal(t, tt.want, LoginRedirectURL("/auth/login/", tt.next))
		})
	}
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{"", "/"},
		{"/notes/", "/notes/"},
		{"https://evil.example/", "/"},
		{"//evil.example/", "/"},
		{"/\\evil.example/", "/"},
		{"notes/", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.next, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeNext(tt.next))
		})
	}
}

func TestLoginRequired(t *testing.T) {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if c.GetHeader("X-Test-User") != "" {
			c.Set(identityKey, usecase.Identity{UserID: "u1", Username: c.GetHeader("X-Test-User")})
		}
		c.Next()
	})
	r.GET("/private/", LoginRequired("/auth/login/"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private/", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=/private/", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private/", nil)
	req.Header.Set("X-Test-User", "alice")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIdentifySession(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		session      model.Session
		expectedCode int
		wantActive   bool
	}{
		{
			name:         "active session",
			session:      model.Session{ExpiresAt: now.Add(time.Hour), LastActivityAt: now.Add(-time.Minute), IsActive: true},
			expectedCode: http.StatusOK,
			wantActive:   true,
		},
		{
			name:         "expired session",
			session:      model.Session{ExpiresAt: now.Add(-time.Second), LastActivityAt: now.Add(-time.Minute), IsActive: true},
			expectedCode: http.StatusUnauthorized,
			wantActive:   true,
		},
		{
			name:         "ended session",
			session:      model.Session{ExpiresAt: now.Add(time.Hour), LastActivityAt: now, IsActive: false},
			expectedCode: http.StatusUnauthorized,
			wantActive:   false,
		},
		{
			name:         "idle session",
			session:      model.Session{ExpiresAt: now.Add(time.Hour), LastActivityAt: now.Add(-time.Hour), IsActive: true},
			expectedCode: http.StatusUnauthorized,
			wantActive:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutils.NewSessionStore()
			session := tt.session
			session.SessionID = "sid"
			session.UserID = "u1"
			session.Username = "alice"
			require.NoError(t, store.CreateSession(context.Background(), &session))

			r := whoami(newTestAuthenticator(store, now))
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "sid"})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				assert.Equal(t, "alice", w.Body.String())
			}

			stored, err := store.GetSession(context.Background(), "sid")
			require.NoError(t, err)
			assert.Equal(t, tt.wantActive, stored.IsActive)
		})
	}
}

func TestIdentifyTouchesSession(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := testutils.NewSessionStore()
	require.NoError(t, store.CreateSession(context.Background(), &model.Session{
		SessionID:      "sid",
		UserID:         "u1",
		Username:       "alice",
		ExpiresAt:      now.Add(time.Hour),
		LastActivityAt: now.Add(-10 * time.Minute),
		IsActive:       true,
	}))

	r := whoami(newTestAuthenticator(store, now))
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "sid"})
	r.ServeHTTP(httptest.NewRecorder(), req)

	stored, err := store.GetSession(context.Background(), "sid")
	require.NoError(t, err)
	assert.Equal(t, now, stored.LastActivityAt)
}

func TestIdentifyBearer(t *testing.T) {
	a := newTestAuthenticator(testutils.NewSessionStore(), time.Now())
	pair, err := a.Tokens.GeneratePair("u1", "alice")
	require.NoError(t, err)
	r := whoami(a)

	tests := []struct {
		name         string
		header       string
		expectedCode int
	}{
		{"access token", "Bearer " + pair.AccessToken, http.StatusOK},
		{"refresh token", "Bearer " + pair.RefreshToken, http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"no scheme", pair.AccessToken, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			req.Header.Set("Authorization", tt.header)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestCreateSessionEnforcesLimit(t *testing.T) {
	store := testutils.NewSessionStore()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	user := &model.User{UserID: "u1", Username: "alice"}

	var first *model.Session
	for i := 0; i < 6; i++ {
		a := newTestAuthenticator(store, base.Add(time.Duration(i)*time.Minute))
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/login/", nil)
		c.Request.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")

		session, err := a.CreateSession(c, user)
		require.NoError(t, err)
		if i == 0 {
			first = session
		}
	}

	count, err := store.CountActiveSessions(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	oldest, err := store.GetSession(context.Background(), first.SessionID)
	require.NoError(t, err)
	assert.False(t, oldest.IsActive)
}

func TestEndSessionClearsCookie(t *testing.T) {
	store := testutils.NewSessionStore()
	a := newTestAuthenticator(store, time.Now())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login/", nil)
	session, err := a.CreateSession(c, &model.User{UserID: "u1", Username: "alice"})
	require.NoError(t, err)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/logout/", nil)
	c.Set(sessionKey, session)
	require.NoError(t, a.EndSession(c))

	stored, err := store.GetSession(context.Background(), session.SessionID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	var cleared bool
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == SessionCookie && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

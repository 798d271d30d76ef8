package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globaltripmarket/finance-api/middleware"
)

func authRouter(mockEnabled bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &AuthHandler{MockEnabled: mockEnabled}

	r := gin.New()
	r.POST("/api/v1/auth/login", h.Login)
	r.GET("/api/v1/auth/me", h.Me)
	r.POST("/api/v1/auth/logout", h.Logout)
	return r
}

func sessionCookie(t *testing.T, resp *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range resp.Result().Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			return cookie
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func TestLogin_MockAdmin(t *testing.T) {
	r := authRouter(true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(`{"username": "admin", "password": "admin"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)

	cookie := sessionCookie(t, w)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestLogin_UsernameCaseInsensitive(t *testing.T) {
	r := authRouter(true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(`{"username": "ADMIN", "password": "admin"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	r := authRouter(true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(`{"username": "admin", "password": "yanlış"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Kullanıcı adı veya şifre hatalı")
}

func TestLogin_DisabledWithoutStore(t *testing.T) {
	r := authRouter(false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(`{"username": "admin", "password": "admin"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestMe_RoundTrip(t *testing.T) {
	r := authRouter(true)

	login := httptest.NewRecorder()
	loginReq := httptest.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(`{"username": "user", "password": "user"}`))
	loginReq.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(login, loginReq)
	require.Equal(t, http.StatusOK, login.Code)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	req.AddCookie(sessionCookie(t, login))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)
	assert.Contains(t, w.Body.String(), `"display_name":"Personel"`)
	assert.Contains(t, w.Body.String(), `"role":"worker"`)
}

func TestMe_NoSession(t *testing.T) {
	r := authRouter(true)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/auth/me", nil))

	// Unauthenticated is a normal answer here, not an error.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)
}

func TestMe_GarbageCookie(t *testing.T) {
	r := authRouter(true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "not-a-jwt"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)
}

func TestLogout_ClearsCookie(t *testing.T) {
	r := authRouter(true)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/auth/logout", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
}

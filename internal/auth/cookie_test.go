package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCookie(t *testing.T, w *CookieWriter, host string, set bool) *http.Cookie {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Host = host

	if set {
		w.Set(c, "token-value", time.Hour)
	} else {
		w.Clear(c)
	}

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestCookieWriter_Set(t *testing.T) {
	w := &CookieWriter{Domain: "example.com", Secure: true}
	cookie := writeCookie(t, w, "app.example.com", true)

	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.Equal(t, "token-value", cookie.Value)
	assert.Equal(t, "example.com", cookie.Domain)
	assert.Equal(t, 3600, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}

func TestCookieWriter_SkipsDomainForLocalhost(t *testing.T) {
	w := &CookieWriter{Domain: "example.com"}

	cookie := writeCookie(t, w, "localhost:4000", true)
	assert.Empty(t, cookie.Domain)
}

func TestCookieWriter_SkipsDomainForIPHost(t *testing.T) {
	w := &CookieWriter{Domain: "example.com"}

	cookie := writeCookie(t, w, "127.0.0.1:4000", true)
	assert.Empty(t, cookie.Domain)
}

func TestCookieWriter_SkipsUnrelatedDomain(t *testing.T) {
	w := &CookieWriter{Domain: "example.com"}

	cookie := writeCookie(t, w, "other.org", true)
	assert.Empty(t, cookie.Domain)

	// Suffix matching must be label-aware: evilexample.com is unrelated.
	cookie = writeCookie(t, w, "evilexample.com", true)
	assert.Empty(t, cookie.Domain)
}

func TestCookieWriter_Clear(t *testing.T) {
	w := &CookieWriter{Domain: "example.com"}
	cookie := writeCookie(t, w, "app.example.com", false)

	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
	assert.Equal(t, "example.com", cookie.Domain)
}

package auth

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "cardbox_session"

// CookieWriter applies the session cookie scoping rules: invisible to
// scripts, secure outside development, and domain-scoped only when the
// configured domain actually matches the request host.
type CookieWriter struct {
	Domain string // configured cookie domain, may be empty
	Secure bool
}

// domainFor returns the Domain attribute for the current request host.
// The configured domain is used only when it is a suffix of the host;
// binding a cookie to an unrelated or loopback hostname would produce a
// cookie the browser silently drops.
func (w *CookieWriter) domainFor(host string) string {
	if w.Domain == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if host == "localhost" || net.ParseIP(host) != nil {
		return ""
	}
	if host == w.Domain || strings.HasSuffix(host, "."+w.Domain) {
		return w.Domain
	}
	return ""
}

// Set attaches the session cookie to the response.
func (w *CookieWriter) Set(c *gin.Context, token string, ttl time.Duration) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   w.domainFor(c.Request.Host),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   w.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear instructs the client to discard the session cookie. Scoping must
// match Set or the browser keeps the original cookie alive.
func (w *CookieWriter) Clear(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   w.domainFor(c.Request.Host),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   w.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

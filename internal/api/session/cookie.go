// Package session renders and reads the auth-token cookie, the only
// transport for session tokens. Cookie Max-Age and token TTL come from
// the same constant in the token package and cannot drift.
package session

import (
	"net/http"

	"github.com/servicehub/marketplace-api/internal/token"
)

// CookieName is the session cookie read and written on every auth route.
const CookieName = "auth-token"

// NewCookie builds the Set-Cookie value carrying a freshly issued token.
func NewCookie(tok string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    tok,
		Path:     "/",
		MaxAge:   token.CookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie builds the Set-Cookie value that deletes the session
// cookie (Max-Age=0, empty value). Logout is purely this client-side
// deletion; the token itself stays valid until natural expiry.
func ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// FromRequest extracts the session token from the request cookie.
// Absent cookie returns ("", false).
func FromRequest(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

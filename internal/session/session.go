// Package session carries the session token in an HTTP cookie. The cookie is
// the only credential the server trusts; the token copy returned in login
// bodies is never read back.
package session

import (
	"net/http"
	"time"
)

const (
	CookieName = "token"
	CookiePath = "/"
	MaxAge     = 24 * time.Hour
)

type Carrier struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// NewCarrier returns a carrier whose cookie lives for maxAge, which should be
// the token lifetime. A non-positive maxAge means MaxAge.
func NewCarrier(secure bool, maxAge time.Duration) *Carrier {
	if maxAge <= 0 {
		maxAge = MaxAge
	}
	return &Carrier{Name: CookieName, Secure: secure, MaxAge: maxAge}
}

func (c *Carrier) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    value,
		Path:     CookiePath,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (c *Carrier) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, c.cookie(token, int(c.MaxAge/time.Second)))
}

// Clear expires the cookie immediately. It uses the same name, path and
// flags as Set so browsers replace the stored cookie.
func (c *Carrier) Clear(w http.ResponseWriter) {
	// MaxAge < 0 is rendered as "Max-Age=0".
	http.SetCookie(w, c.cookie("", -1))
}

// Token returns the cookie value, or "" when the request carries none.
func (c *Carrier) Token(r *http.Request) string {
	cookie, err := r.Cookie(c.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

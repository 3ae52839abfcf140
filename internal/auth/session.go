package auth

import (
	"context"
	"errors"
	"net/http"
	"time"
)

const (
	CookieName = "session"
	SessionTTL = 7 * 24 * time.Hour
)

var ErrUnauthorized = errors.New("unauthorized")

// Codec issues, checks and clears the session cookie. TokenCodec keeps the
// claims in a signed cookie, StoreCodec keeps them in the sessions table.
type Codec interface {
	Issue(ctx context.Context) (*http.Cookie, error)
	Check(r *http.Request) bool
	// Clear always returns the expiring cookie. A non-nil error means the
	// session could not be invalidated server-side.
	Clear(r *http.Request) (*http.Cookie, error)
}

type CookieOptions struct {
	Secure bool
}

func (o CookieOptions) cookie(value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func (o CookieOptions) expired() *http.Cookie {
	c := o.cookie("", 0)
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	return c
}

func sessionValue(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

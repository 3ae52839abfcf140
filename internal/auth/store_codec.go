package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"traintrace/internal/models"
	"traintrace/internal/store"
)

// StoreCodec is the stateful variant: the cookie holds a random session ID
// and the claims live in the sessions table.
type StoreCodec struct {
	sessions store.SessionRepository
	opts     CookieOptions
	ttl      time.Duration
	now      func() time.Time
}

func NewStoreCodec(sessions store.SessionRepository, opts CookieOptions) *StoreCodec {
	return &StoreCodec{sessions: sessions, opts: opts, ttl: SessionTTL, now: time.Now}
}

func newSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (c *StoreCodec) Issue(ctx context.Context) (*http.Cookie, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, fmt.Errorf("session id: %w", err)
	}
	sess := &models.Session{
		ID:              id,
		IsAuthenticated: true,
		ExpiresAt:       c.now().Add(c.ttl),
	}
	if err := c.sessions.CreateSession(ctx, sess); err != nil {
		return nil, err
	}
	return c.opts.cookie(id, c.ttl), nil
}

func (c *StoreCodec) Check(r *http.Request) bool {
	id := sessionValue(r)
	if id == "" {
		return false
	}
	sess, err := c.sessions.GetSession(r.Context(), id)
	if err != nil {
		return false
	}
	return sess.IsAuthenticated && sess.RevokedAt == nil && c.now().Before(sess.ExpiresAt)
}

// Clear revokes the server-side row as well as expiring the cookie.
func (c *StoreCodec) Clear(r *http.Request) (*http.Cookie, error) {
	if id := sessionValue(r); id != "" {
		if err := c.sessions.RevokeSession(r.Context(), id); err != nil {
			return c.opts.expired(), fmt.Errorf("revoke session: %w", err)
		}
	}
	return c.opts.expired(), nil
}

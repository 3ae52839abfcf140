package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type tokenClaims struct {
	IsAuthenticated bool `json:"isAuthenticated"`
	jwt.RegisteredClaims
}

// TokenCodec is the stateless variant: an HS256-signed token carrying the
// claims is the cookie value.
type TokenCodec struct {
	key  []byte
	opts CookieOptions
	ttl  time.Duration
	now  func() time.Time
}

func NewTokenCodec(secret string, opts CookieOptions) *TokenCodec {
	return &TokenCodec{key: []byte(secret), opts: opts, ttl: SessionTTL, now: time.Now}
}

func (c *TokenCodec) Encode(claims Claims) (string, error) {
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		IsAuthenticated: claims.IsAuthenticated,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	})
	return token.SignedString(c.key)
}

// Decode verifies the signature and expiry. Strict base64 decoding makes any
// altered signature character fail instead of being absorbed by padding bits.
func (c *TokenCodec) Decode(raw string) (Claims, error) {
	tc := &tokenClaims{}
	tok, err := jwt.ParseWithClaims(raw, tc, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !tok.Valid {
		return Claims{}, ErrUnauthorized
	}
	return Claims{IsAuthenticated: tc.IsAuthenticated}, nil
}

func (c *TokenCodec) Issue(ctx context.Context) (*http.Cookie, error) {
	tok, err := c.Encode(Claims{IsAuthenticated: true})
	if err != nil {
		return nil, err
	}
	return c.opts.cookie(tok, c.ttl), nil
}

func (c *TokenCodec) Check(r *http.Request) bool {
	raw := sessionValue(r)
	if raw == "" {
		return false
	}
	claims, err := c.Decode(raw)
	return err == nil && claims.IsAuthenticated
}

// Clear only expires the cookie; a copied token stays valid until it expires.
func (c *TokenCodec) Clear(r *http.Request) (*http.Cookie, error) {
	return c.opts.expired(), nil
}

// Package token issues and validates the signed session tokens.
//
// Tokens are self-contained: subject id, role, issue time, expiry, and a
// unique token id, all signed with a server-held HS256 secret. Any replica
// holding the same secret can validate a token minted by another replica, so
// validation needs no database access.
package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers every validation failure: malformed, expired, wrong
// algorithm, bad signature. Callers must not distinguish between them in
// anything visible to the client.
var ErrInvalidToken = errors.New("token: invalid or expired")

// Claims is the decoded content of a valid token.
type Claims struct {
	UserID    int64
	Role      string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Remaining returns how long the token is still valid, zero if already past
// expiry.
func (c Claims) Remaining(now time.Time) time.Duration {
	d := c.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Issuer mints and validates session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer creates an Issuer with the given signing secret and token
// lifetime. A non-positive ttl falls back to one hour.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a token for the identity. The same identity may hold any number
// of simultaneously valid tokens.
func (i *Issuer) Issue(userID int64, role string) (string, Claims, error) {
	now := time.Now().UTC()
	c := Claims{
		UserID:    userID,
		Role:      role,
		TokenID:   uuid.NewString(),
		IssuedAt:  now,
		ExpiresAt: now.Add(i.ttl),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  strconv.FormatInt(c.UserID, 10),
		"role": c.Role,
		"jti":  c.TokenID,
		"iat":  c.IssuedAt.Unix(),
		"exp":  c.ExpiresAt.Unix(),
	})
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", Claims{}, err
	}
	return signed, c, nil
}

// Parse verifies signature and expiry and returns the decoded claims. Any
// failure is reported as ErrInvalidToken.
func (i *Issuer) Parse(raw string) (Claims, error) {
	mc := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(raw, mc, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil || !t.Valid {
		return Claims{}, ErrInvalidToken
	}

	sub, _ := mc["sub"].(string)
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	role, _ := mc["role"].(string)
	if role == "" {
		return Claims{}, ErrInvalidToken
	}

	c := Claims{
		UserID:  userID,
		Role:    role,
		TokenID: stringClaim(mc, "jti"),
	}
	if iat, ok := numericClaim(mc, "iat"); ok {
		c.IssuedAt = time.Unix(iat, 0).UTC()
	}
	exp, ok := numericClaim(mc, "exp")
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	c.ExpiresAt = time.Unix(exp, 0).UTC()

	return c, nil
}

func stringClaim(mc jwt.MapClaims, key string) string {
	s, _ := mc[key].(string)
	return s
}

// numericClaim handles the float64 that encoding/json produces for numbers.
func numericClaim(mc jwt.MapClaims, key string) (int64, bool) {
	switch v := mc[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}

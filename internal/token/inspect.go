// AngelaMos | 2026
// inspect.go

package token

import (
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwt"
)

// Claims is the subset of access-token claims the client reads locally.
type Claims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

// Expired reports whether the token was expired at the given instant. A token
// without an exp claim never reports expired.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return now.After(c.ExpiresAt)
}

// Peek decodes an access token without verifying its signature. The client
// holds no verification key; the result is advisory only and is used to skip
// profile fetches that are guaranteed to fail, never to grant access.
func Peek(raw string) (*Claims, error) {
	tok, err := jwt.Parse(
		[]byte(raw),
		jwt.WithVerify(false),
		jwt.WithValidate(false),
	)
	if err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}

	claims := &Claims{}

	if sub, ok := tok.Subject(); ok {
		claims.Subject = sub
	}

	if exp, ok := tok.Expiration(); ok {
		claims.ExpiresAt = exp
	}

	var role string
	if err := tok.Get("role", &role); err == nil {
		claims.Role = role
	}

	return claims, nil
}

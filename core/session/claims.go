package session

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
)

var (
	NowFunc = time.Now // mockable

	errMalformedToken = errors.New("malformed token")
)

// Claims represents the authorization claims transmitted via a bearer token.
// The auth provider embeds the granted capability tags in the `permissions` claim.
type Claims struct {
	jwt.StandardClaims
	Permissions []string `json:"permissions,omitempty"`
}

// DecodeClaims extracts the Claims from a token's payload segment.
// The signature is NOT verified: the backend owns verification, this client
// only derives UI capabilities from it. Decoding is a pure local transform;
// it never touches the network.
func DecodeClaims(token string) (*Claims, error) {
	if token == "" {
		return nil, errMalformedToken
	}
	claims := new(Claims)
	parser := &jwt.Parser{SkipClaimsValidation: true}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, errMalformedToken
	}
	return claims, nil
}

// Expired reports whether the token expired at or before `t` (with leeway applied).
func (c *Claims) Expired(t time.Time, leeway time.Duration) bool {
	if c.ExpiresAt == 0 {
		return false
	}
	return !t.Add(leeway).Before(time.Unix(c.ExpiresAt, 0))
}

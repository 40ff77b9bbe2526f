package backend

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reads the exp claim out of a bearer token without verifying
// its signature. Verification belongs to the backend; the client only needs
// to know when a stored token is worth presenting at all.
func TokenExpiry(token string) (time.Time, error) {
	parser := jwt.NewParser()

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("parsing token: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("reading exp claim: %w", err)
	}
	if exp == nil {
		// No exp claim means the token never expires locally.
		return time.Time{}, nil
	}
	return exp.Time, nil
}

// TokenExpired reports whether the token's exp claim has passed. Tokens
// that cannot be parsed are treated as expired so the caller re-authenticates.
func TokenExpired(token string, now time.Time) bool {
	exp, err := TokenExpiry(token)
	if err != nil {
		return true
	}
	if exp.IsZero() {
		return false
	}
	return now.After(exp)
}

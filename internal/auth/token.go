// Package auth handles the client's bearer token.
//
// The token is issued by the budgeting API at login and treated here as an
// opaque credential: the client never holds the signing key, so claims are
// read without signature verification. The only claim the client needs is
// the subject, which carries the authenticated user's id.
package auth

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"budgeting/internal/models"
)

// ErrInvalidToken is returned when a token cannot be parsed or carries no
// usable subject claim.
var ErrInvalidToken = errors.New("invalid token")

// StaticTokenSource returns a fixed token on every call. It satisfies
// api.TokenSource and is the injected capability the reconciler and importer
// authenticate with, instead of a process-wide token singleton.
type StaticTokenSource struct {
	token string
}

// NewStaticTokenSource wraps an already-issued bearer token.
func NewStaticTokenSource(token string) *StaticTokenSource {
	return &StaticTokenSource{token: token}
}

// Token returns the wrapped bearer token.
func (s *StaticTokenSource) Token() (string, error) {
	if s.token == "" {
		return "", fmt.Errorf("%w: empty token", ErrInvalidToken)
	}
	return s.token, nil
}

// UserID extracts the authenticated user's id from the token's subject.
func (s *StaticTokenSource) UserID() (models.UserID, error) {
	return UserIDFromToken(s.token)
}

// UserIDFromToken parses the token without verifying its signature and
// returns the user id stored in the "sub" claim.
func UserIDFromToken(token string) (models.UserID, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return 0, fmt.Errorf("%w: missing subject claim", ErrInvalidToken)
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: subject %q is not a user id", ErrInvalidToken, sub)
	}
	return models.UserID(id), nil
}

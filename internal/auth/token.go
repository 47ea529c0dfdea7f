package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/desk-console/internal/domain"
)

// UserClaim is the identity payload the desk embeds in issued tokens.
type UserClaim struct {
	ID         string `json:"id"`
	Role       string `json:"role"`
	OperatorID string `json:"operatorId,omitempty"`
}

// Claims describes the desk's JWT payload.
type Claims struct {
	User UserClaim `json:"user"`
	jwt.RegisteredClaims
}

var (
	// ErrMalformedCredential means the stored token cannot be parsed.
	ErrMalformedCredential = errors.New("malformed credential")
	// ErrExpiredCredential means the token's embedded expiry has passed.
	ErrExpiredCredential = errors.New("expired credential")
)

// DecodeCredential extracts the session embedded in a signed desk
// token. The signature is the desk's to verify; the console only needs
// the claims, and confirms validity with a remote probe before trusting
// them. Expiry is still checked locally so a stale token collapses to
// an absent session even when the desk is unreachable.
func DecodeCredential(token string, now time.Time) (domain.Session, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return domain.Session{}, ErrMalformedCredential
	}
	if claims.ExpiresAt != nil && now.After(claims.ExpiresAt.Time) {
		return domain.Session{}, ErrExpiredCredential
	}
	if claims.User.ID == "" {
		return domain.Session{}, ErrMalformedCredential
	}

	return domain.Session{
		SubjectID:  claims.User.ID,
		Role:       domain.ParseRole(claims.User.Role),
		OperatorID: claims.User.OperatorID,
	}, nil
}

package ports

import (
	"context"

	"github.com/sitecraft/website-builder/internal/core/domain"
)

// AuthService implements signup and login, both returning a session token.
type AuthService interface {
	Signup(ctx context.Context, email, password, roleName string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// TokenClaims is the identity bound into a session token.
type TokenClaims struct {
	UserID string
	RoleID string
}

// SessionService issues and verifies stateless session tokens.
type SessionService interface {
	Issue(userID, roleID string) (string, error)
	// Parse checks structure, signature and expiry only.
	Parse(token string) (*TokenClaims, error)
	// Verify parses the token and re-resolves the user and role from their stores.
	Verify(ctx context.Context, token string) (*domain.Principal, error)
}

package ports

import (
	"context"

	"github.com/sitecraft/website-builder/internal/core/domain"
)

// UserRepository defines the interface for credential persistence.
type UserRepository interface {
	// Create inserts a user and returns it with its assigned ID.
	// Returns domain.ErrDuplicateEmail when the email is already registered.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindEmails resolves owner ids to emails for list annotation. Unknown ids are omitted.
	FindEmails(ctx context.Context, ids []string) (map[string]string, error)
	UpdateRole(ctx context.Context, userID, roleID string) error
}

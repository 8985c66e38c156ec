package ports

import (
	"context"

	"github.com/sitecraft/website-builder/internal/core/domain"
)

// RoleRepository defines persistence operations for roles.
type RoleRepository interface {
	// Create returns domain.ErrRoleExists when the name is taken.
	Create(ctx context.Context, role *domain.Role) (*domain.Role, error)
	FindByID(ctx context.Context, id string) (*domain.Role, error)
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	List(ctx context.Context) ([]*domain.Role, error)
	UpdatePermissions(ctx context.Context, id string, permissions []string) error
	Delete(ctx context.Context, id string) error
}

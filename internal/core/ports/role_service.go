package ports

import (
	"context"

	"github.com/sitecraft/website-builder/internal/core/domain"
)

// RoleService exposes role administration. Every call is Admin-gated.
type RoleService interface {
	List(ctx context.Context, caller domain.Principal) ([]*domain.Role, error)
	Create(ctx context.Context, caller domain.Principal, name string, permissions []string) (*domain.Role, error)
	UpdatePermissions(ctx context.Context, caller domain.Principal, roleID string, permissions []string) error
	Delete(ctx context.Context, caller domain.Principal, roleID string) error
	AssignRole(ctx context.Context, caller domain.Principal, userID, roleID string) error
}

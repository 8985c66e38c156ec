package authz

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/sitecraft/website-builder/internal/core/domain"
	"github.com/sitecraft/website-builder/internal/core/ports"
)

// Engine resolves role ids through the role store and applies the policy functions.
// A role id that does not resolve denies everything.
type Engine struct {
	roles ports.RoleRepository
	log   zerolog.Logger
}

// NewEngine returns an Engine reading roles from repo.
func NewEngine(repo ports.RoleRepository, log zerolog.Logger) *Engine {
	return &Engine{roles: repo, log: log}
}

// CanAccess reports whether the caller may read a resource owned by ownerID.
func (e *Engine) CanAccess(ctx context.Context, userID, roleID, ownerID string) bool {
	name, ok := e.roleName(ctx, roleID)
	return ok && AccessAllowed(name, userID, ownerID)
}

// CanEdit reports whether the caller may modify a resource owned by ownerID.
// An empty ownerID asks whether the caller may create at all.
func (e *Engine) CanEdit(ctx context.Context, userID, roleID, ownerID string) bool {
	name, ok := e.roleName(ctx, roleID)
	return ok && EditAllowed(name, userID, ownerID)
}

// IsAdmin reports whether roleID names the Admin role.
func (e *Engine) IsAdmin(ctx context.Context, roleID string) bool {
	name, ok := e.roleName(ctx, roleID)
	return ok && name == domain.RoleAdmin
}

// ListScope returns the owner filter for listing websites. Unresolvable roles get ErrForbidden.
func (e *Engine) ListScope(ctx context.Context, userID, roleID string) (ports.ListWebsitesFilter, error) {
	name, ok := e.roleName(ctx, roleID)
	if !ok {
		return ports.ListWebsitesFilter{}, domain.ErrForbidden
	}
	return ports.ListWebsitesFilter{OwnerID: ListOwnerFilter(name, userID)}, nil
}

func (e *Engine) roleName(ctx context.Context, roleID string) (string, bool) {
	if roleID == "" {
		return "", false
	}
	role, err := e.roles.FindByID(ctx, roleID)
	if err != nil {
		if !errors.Is(err, domain.ErrRoleNotFound) {
			e.log.Error().Err(err).Str("role_id", roleID).Msg("role lookup failed, denying")
		}
		return "", false
	}
	return role.Name, true
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sitecraft/website-builder/internal/core/domain"
	"github.com/sitecraft/website-builder/internal/core/ports"
)

// RoleService implements Admin-only role administration.
//
// Deleting a role that users still reference is allowed; those users resolve to
// domain.RoleUnknown on their next request.
type RoleService struct {
	roles ports.RoleRepository
	users ports.UserRepository
	authz ports.Authorizer
	log   zerolog.Logger
}

func NewRoleService(roles ports.RoleRepository, users ports.UserRepository, authz ports.Authorizer, log zerolog.Logger) *RoleService {
	return &RoleService{roles: roles, users: users, authz: authz, log: log}
}

func (s *RoleService) List(ctx context.Context, caller domain.Principal) ([]*domain.Role, error) {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	return s.roles.List(ctx)
}

func (s *RoleService) Create(ctx context.Context, caller domain.Principal, name string, permissions []string) (*domain.Role, error) {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: role name is required", domain.ErrValidation)
	}
	if permissions == nil {
		permissions = []string{}
	}

	role, err := s.roles.Create(ctx, &domain.Role{Name: name, Permissions: permissions})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("role_id", role.ID).Str("name", role.Name).Str("by", caller.UserID).Msg("role created")
	return role, nil
}

func (s *RoleService) UpdatePermissions(ctx context.Context, caller domain.Principal, roleID string, permissions []string) error {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if permissions == nil {
		permissions = []string{}
	}
	if err := s.roles.UpdatePermissions(ctx, roleID, permissions); err != nil {
		return err
	}
	s.log.Info().Str("role_id", roleID).Str("by", caller.UserID).Msg("role permissions updated")
	return nil
}

func (s *RoleService) Delete(ctx context.Context, caller domain.Principal, roleID string) error {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if err := s.roles.Delete(ctx, roleID); err != nil {
		return err
	}
	s.log.Info().Str("role_id", roleID).Str("by", caller.UserID).Msg("role deleted")
	return nil
}

// AssignRole points userID at roleID. The role must exist.
func (s *RoleService) AssignRole(ctx context.Context, caller domain.Principal, userID, roleID string) error {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if roleID == "" {
		return fmt.Errorf("%w: role_id is required", domain.ErrValidation)
	}
	if _, err := s.roles.FindByID(ctx, roleID); err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			return domain.ErrUnknownRole
		}
		return err
	}
	if err := s.users.UpdateRole(ctx, userID, roleID); err != nil {
		return err
	}
	s.log.Info().Str("user_id", userID).Str("role_id", roleID).Str("by", caller.UserID).Msg("role assigned")
	return nil
}

func (s *RoleService) requireAdmin(ctx context.Context, caller domain.Principal) error {
	if !s.authz.IsAdmin(ctx, caller.RoleID) {
		return domain.ErrForbidden
	}
	return nil
}

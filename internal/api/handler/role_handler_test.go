package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/sitecraft/website-builder/internal/core/domain"
)

type stubRoleService struct {
	err         error
	gotRoleID   string
	gotUserID   string
	gotName     string
	gotPerms    []string
	deleteCalls int
}

func (s *stubRoleService) List(context.Context, domain.Principal) ([]*domain.Role, error) {
	return []*domain.Role{{ID: "r1", Name: domain.RoleAdmin}}, s.err
}

func (s *stubRoleService) Create(_ context.Context, _ domain.Principal, name string, perms []string) (*domain.Role, error) {
	s.gotName, s.gotPerms = name, perms
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Role{ID: "r9", Name: name, Permissions: perms}, nil
}

func (s *stubRoleService) UpdatePermissions(_ context.Context, _ domain.Principal, id string, perms []string) error {
	s.gotRoleID, s.gotPerms = id, perms
	return s.err
}

func (s *stubRoleService) Delete(_ context.Context, _ domain.Principal, id string) error {
	s.gotRoleID = id
	s.deleteCalls++
	return s.err
}

func (s *stubRoleService) AssignRole(_ context.Context, _ domain.Principal, userID, roleID string) error {
	s.gotUserID, s.gotRoleID = userID, roleID
	return s.err
}

var adminPrincipal = &domain.Principal{UserID: "a1", RoleID: "r-admin", RoleName: domain.RoleAdmin}

func TestRoleHandler_Create(t *testing.T) {
	svc := &stubRoleService{}
	c, rec := newContext(http.MethodPost, "/roles", `{"name":"Moderator","permissions":["view_websites"]}`, adminPrincipal)

	if err := NewRoleHandler(svc).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated || svc.gotName != "Moderator" || len(svc.gotPerms) != 1 {
		t.Fatalf("unexpected result %d %q %v", rec.Code, svc.gotName, svc.gotPerms)
	}
}

func TestRoleHandler_CreateRequiresName(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/roles", `{"permissions":[]}`, adminPrincipal)
	if err := NewRoleHandler(&stubRoleService{}).Create(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRoleHandler_UpdateAndAssign(t *testing.T) {
	svc := &stubRoleService{}

	c, rec := newContext(http.MethodPut, "/roles/r1", `{"permissions":["a","b"]}`, adminPrincipal)
	c.SetParamNames("id")
	c.SetParamValues("r1")
	if err := NewRoleHandler(svc).Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec.Code != http.StatusOK || svc.gotRoleID != "r1" || len(svc.gotPerms) != 2 {
		t.Fatalf("unexpected update call: %d %q %v", rec.Code, svc.gotRoleID, svc.gotPerms)
	}

	c, rec = newContext(http.MethodPut, "/users/u7/role", `{"role_id":"r2"}`, adminPrincipal)
	c.SetParamNames("id")
	c.SetParamValues("u7")
	if err := NewRoleHandler(svc).AssignRole(c); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if rec.Code != http.StatusOK || svc.gotUserID != "u7" || svc.gotRoleID != "r2" {
		t.Fatalf("unexpected assign call: %d %q %q", rec.Code, svc.gotUserID, svc.gotRoleID)
	}
}

func TestRoleHandler_DeleteNotFound(t *testing.T) {
	svc := &stubRoleService{err: domain.ErrRoleNotFound}
	c, _ := newContext(http.MethodDelete, "/roles/missing", "", adminPrincipal)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := NewRoleHandler(svc).Delete(c); !errors.Is(err, domain.ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

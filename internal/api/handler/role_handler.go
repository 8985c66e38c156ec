package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sitecraft/website-builder/internal/core/ports"
)

// RoleHandler serves role administration. Routes are mounted behind RequireAdmin.
type RoleHandler struct {
	roles ports.RoleService
}

func NewRoleHandler(roles ports.RoleService) *RoleHandler {
	return &RoleHandler{roles: roles}
}

type createRoleRequest struct {
	Name        string   `json:"name"        validate:"required,max=64"`
	Permissions []string `json:"permissions"`
}

type updateRoleRequest struct {
	Permissions []string `json:"permissions" validate:"required"`
}

type assignRoleRequest struct {
	RoleID string `json:"role_id" validate:"required"`
}

// List handles GET /roles.
//
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Role
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Router       /roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	roles, err := h.roles.List(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roles)
}

// Create handles POST /roles.
//
// @Summary      Create a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRoleRequest  true  "Role name and permissions"
// @Success      201   {object}  domain.Role
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Router       /roles [post]
func (h *RoleHandler) Create(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	var req createRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	role, err := h.roles.Create(c.Request().Context(), p, req.Name, req.Permissions)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, role)
}

// Update handles PUT /roles/:id. Only the permission list can change.
//
// @Summary      Replace a role's permissions
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Role id"
// @Param        body  body      updateRoleRequest  true  "New permissions"
// @Success      200   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /roles/{id} [put]
func (h *RoleHandler) Update(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	var req updateRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.roles.UpdatePermissions(c.Request().Context(), p, c.Param("id"), req.Permissions); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Msg: "Role updated"})
}

// Delete handles DELETE /roles/:id.
//
// @Summary      Delete a role
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Role id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /roles/{id} [delete]
func (h *RoleHandler) Delete(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.roles.Delete(c.Request().Context(), p, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Msg: "Role deleted"})
}

// AssignRole handles PUT /users/:id/role.
//
// @Summary      Assign a role to a user
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      assignRoleRequest  true  "Role id"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /users/{id}/role [put]
func (h *RoleHandler) AssignRole(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	var req assignRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.roles.AssignRole(c.Request().Context(), p, c.Param("id"), req.RoleID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Msg: "Role assigned"})
}

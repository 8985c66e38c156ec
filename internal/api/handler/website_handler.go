package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sitecraft/website-builder/internal/core/domain"
	"github.com/sitecraft/website-builder/internal/core/ports"
)

// WebsiteHandler handles HTTP requests for website documents.
type WebsiteHandler struct {
	websites ports.WebsiteService
}

func NewWebsiteHandler(websites ports.WebsiteService) *WebsiteHandler {
	return &WebsiteHandler{websites: websites}
}

type createWebsiteRequest struct {
	Data map[string]any `json:"data"`
}

type createWebsiteResponse struct {
	Msg       string `json:"msg"`
	WebsiteID string `json:"website_id"`
}

// Create handles POST /websites.
//
// @Summary      Create a website
// @Tags         websites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createWebsiteRequest  true  "Website content"
// @Success      201   {object}  createWebsiteResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Router       /websites [post]
func (h *WebsiteHandler) Create(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	var req createWebsiteRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	id, err := h.websites.Create(c.Request().Context(), p, req.Data)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createWebsiteResponse{Msg: "Website created", WebsiteID: id})
}

// List handles GET /websites. Editors see their own websites; every other role sees all.
//
// @Summary      List websites
// @Tags         websites
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Website
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Router       /websites [get]
func (h *WebsiteHandler) List(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	sites, err := h.websites.List(c.Request().Context(), p)
	if err != nil {
		return err
	}
	if sites == nil {
		sites = []*domain.Website{}
	}
	return c.JSON(http.StatusOK, sites)
}

// Get handles GET /websites/:id.
//
// @Summary      Get a website
// @Tags         websites
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Website id"
// @Success      200  {object}  domain.Website
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /websites/{id} [get]
func (h *WebsiteHandler) Get(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	w, err := h.websites.Get(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, w)
}

// Update handles PUT /websites/:id. The body maps dot paths to new values,
// e.g. {"hero.heading": "Welcome"}.
//
// @Summary      Update website content
// @Tags         websites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "Website id"
// @Param        body  body      object  true  "Dot-path patch"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /websites/{id} [put]
func (h *WebsiteHandler) Update(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	// BindBody only: Bind would copy the :id path param into the patch map.
	var patch map[string]any
	if err := (&echo.DefaultBinder{}).BindBody(c, &patch); err != nil {
		return invalidPayload()
	}

	if err := h.websites.Update(c.Request().Context(), p, c.Param("id"), patch); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Msg: "Website updated successfully"})
}

// Delete handles DELETE /websites/:id.
//
// @Summary      Delete a website
// @Tags         websites
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Website id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /websites/{id} [delete]
func (h *WebsiteHandler) Delete(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.websites.Delete(c.Request().Context(), p, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Msg: "Website deleted"})
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sitecraft/website-builder/internal/core/ports"
)

type GenerationHandler struct {
	websites ports.WebsiteService
}

func NewGenerationHandler(websites ports.WebsiteService) *GenerationHandler {
	return &GenerationHandler{websites: websites}
}

type generateRequest struct {
	BusinessType string `json:"business_type" validate:"required,max=200"`
	Industry     string `json:"industry"      validate:"required,max=200"`
	Description  string `json:"description"   validate:"max=2000"`
}

func (r generateRequest) input() ports.GenerateInput {
	return ports.GenerateInput{BusinessType: r.BusinessType, Industry: r.Industry, Description: r.Description}
}

type generateResponse struct {
	Msg         string         `json:"msg"`
	WebsiteID   string         `json:"website_id"`
	Content     map[string]any `json:"content"`
	AIModelUsed string         `json:"ai_model_used"`
}

// Generate handles POST /generate-website.
//
// @Summary      Generate a website from a business description
// @Tags         generation
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      generateRequest  true  "Business description"
// @Success      201   {object}  generateResponse
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      500   {object}  map[string]string
// @Router       /generate-website [post]
func (h *GenerationHandler) Generate(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	var req generateRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.websites.Generate(c.Request().Context(), p, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, generateResponse{
		Msg:         "Website generated successfully",
		WebsiteID:   res.WebsiteID,
		Content:     res.Content,
		AIModelUsed: res.Model,
	})
}

// Regenerate handles PUT /regenerate-website/:id. Id and owner are preserved.
//
// @Summary      Regenerate a website's content
// @Tags         generation
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Website id"
// @Param        body  body      generateRequest  true  "Business description"
// @Success      200   {object}  generateResponse
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      500   {object}  map[string]string
// @Router       /regenerate-website/{id} [put]
func (h *GenerationHandler) Regenerate(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	var req generateRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.websites.Regenerate(c.Request().Context(), p, c.Param("id"), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, generateResponse{
		Msg:         "Website regenerated successfully",
		WebsiteID:   res.WebsiteID,
		Content:     res.Content,
		AIModelUsed: res.Model,
	})
}

package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sitecraft/website-builder/internal/api/middleware"
	"github.com/sitecraft/website-builder/internal/core/domain"
	"github.com/sitecraft/website-builder/internal/core/ports"
)

//go:embed templates/website.html
var templateFS embed.FS

var websiteTemplate = template.Must(template.ParseFS(templateFS, "templates/website.html"))

// PreviewHandler renders a stored website as HTML.
type PreviewHandler struct {
	websites ports.WebsiteService
	public   bool
}

// NewPreviewHandler with public=true skips the access check; mount it without Auth then.
func NewPreviewHandler(websites ports.WebsiteService, public bool) *PreviewHandler {
	return &PreviewHandler{websites: websites, public: public}
}

type textBlock struct {
	Heading string
	Body    string
}

type previewView struct {
	Title    string
	Hero     *textBlock
	About    *textBlock
	Services []textBlock
	Contact  *textBlock
}

// newPreviewView picks the known sections out of free-form content. Sections
// with an unexpected shape are skipped rather than failing the render.
func newPreviewView(w *domain.Website) previewView {
	v := previewView{
		Title:   w.Title(),
		Hero:    block(w.Content["hero"], "heading", "subheading"),
		About:   block(w.Content["about"], "title", "content"),
		Contact: block(w.Content["contact"], "title", "content"),
	}
	if items, ok := w.Content["services"].([]any); ok {
		for _, item := range items {
			if b := block(item, "name", "description"); b != nil {
				v.Services = append(v.Services, *b)
			}
		}
	}
	return v
}

func block(v any, headingKey, bodyKey string) *textBlock {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	heading, _ := m[headingKey].(string)
	body, _ := m[bodyKey].(string)
	if heading == "" && body == "" {
		return nil
	}
	return &textBlock{Heading: heading, Body: body}
}

// Preview handles GET /preview/:id and GET /preview/:id/:cache_bust.
// The cache_bust segment is ignored; it only makes the URL unique.
//
// @Summary      Render a website preview
// @Tags         preview
// @Produce      html
// @Security     BearerAuth
// @Param        id          path   string  true   "Website id"
// @Param        cache_bust  path   string  false  "Ignored cache-busting segment"
// @Param        token       query  string  false  "Session token when no Authorization header can be sent"
// @Success      200
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /preview/{id} [get]
func (h *PreviewHandler) Preview(c echo.Context) error {
	var p *domain.Principal
	if !h.public {
		var ok bool
		if p, ok = middleware.PrincipalFrom(c); !ok {
			return domain.ErrTokenMissing
		}
	}

	w, err := h.websites.Preview(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := websiteTemplate.Execute(&buf, newPreviewView(w)); err != nil {
		return fmt.Errorf("render preview %s: %w", w.ID, err)
	}

	hdr := c.Response().Header()
	hdr.Set(echo.HeaderCacheControl, "no-cache, no-store, must-revalidate")
	hdr.Set("Pragma", "no-cache")
	hdr.Set("Expires", "0")
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/sitecraft/website-builder/internal/core/domain"
)

func TestWebsiteHandler_Create(t *testing.T) {
	svc := &stubWebsiteService{}
	c, rec := newContext(http.MethodPost, "/websites", `{"data":{"title":"My Site"}}`, editorPrincipal)

	if err := NewWebsiteHandler(svc).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.gotCaller.UserID != "u1" || svc.gotContent["title"] != "My Site" {
		t.Fatalf("unexpected call: %+v %v", svc.gotCaller, svc.gotContent)
	}

	var resp map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["website_id"] != "site-1" {
		t.Fatalf("unexpected body: %v", resp)
	}
}

func TestWebsiteHandler_RequiresCaller(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/websites", "", nil)
	if err := NewWebsiteHandler(&stubWebsiteService{}).List(c); !errors.Is(err, domain.ErrTokenMissing) {
		t.Fatalf("expected ErrTokenMissing, got %v", err)
	}
}

func TestWebsiteHandler_ListEmptyIsArray(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/websites", "", editorPrincipal)

	if err := NewWebsiteHandler(&stubWebsiteService{}).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Fatalf("expected empty JSON array, got %q", got)
	}
}

func TestWebsiteHandler_GetPropagatesErrors(t *testing.T) {
	svc := &stubWebsiteService{err: domain.ErrForbidden}
	c, _ := newContext(http.MethodGet, "/websites/abc", "", editorPrincipal)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	if err := NewWebsiteHandler(svc).Get(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if svc.gotID != "abc" {
		t.Fatalf("id not passed through: %q", svc.gotID)
	}
}

func TestWebsiteHandler_UpdatePatchExcludesPathParams(t *testing.T) {
	svc := &stubWebsiteService{}
	c, rec := newContext(http.MethodPut, "/websites/abc", `{"hero.heading":"Hi","title":"T"}`, editorPrincipal)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	if err := NewWebsiteHandler(svc).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(svc.gotPatch) != 2 || svc.gotPatch["hero.heading"] != "Hi" {
		t.Fatalf("unexpected patch: %v", svc.gotPatch)
	}
	if _, ok := svc.gotPatch["id"]; ok {
		t.Fatalf("path param leaked into patch")
	}
}

func TestWebsiteHandler_UpdateBadJSON(t *testing.T) {
	c, _ := newContext(http.MethodPut, "/websites/abc", `[1,2]`, editorPrincipal)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	if err := NewWebsiteHandler(&stubWebsiteService{}).Update(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestWebsiteHandler_Delete(t *testing.T) {
	svc := &stubWebsiteService{}
	c, rec := newContext(http.MethodDelete, "/websites/abc", "", editorPrincipal)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	if err := NewWebsiteHandler(svc).Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || svc.gotID != "abc" {
		t.Fatalf("unexpected result %d %q", rec.Code, svc.gotID)
	}
}

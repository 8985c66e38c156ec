package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sitecraft/website-builder/internal/api/middleware"
	"github.com/sitecraft/website-builder/internal/core/domain"
	"github.com/sitecraft/website-builder/internal/core/ports"
)

type stubAuthService struct {
	signupFn func(ctx context.Context, email, password, role string) (string, error)
	loginFn  func(ctx context.Context, email, password string) (string, error)
}

func (s *stubAuthService) Signup(ctx context.Context, email, password, role string) (string, error) {
	return s.signupFn(ctx, email, password, role)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, error) {
	return s.loginFn(ctx, email, password)
}

// stubWebsiteService records the last call and returns canned values.
type stubWebsiteService struct {
	website *domain.Website
	list    []*domain.Website
	result  *ports.GenerateResult
	err     error

	gotCaller  *domain.Principal
	gotID      string
	gotContent map[string]any
	gotPatch   map[string]any
	gotInput   ports.GenerateInput
}

func (s *stubWebsiteService) Create(_ context.Context, caller domain.Principal, content map[string]any) (string, error) {
	s.gotCaller, s.gotContent = &caller, content
	return "site-1", s.err
}

func (s *stubWebsiteService) List(_ context.Context, caller domain.Principal) ([]*domain.Website, error) {
	s.gotCaller = &caller
	return s.list, s.err
}

func (s *stubWebsiteService) Get(_ context.Context, caller domain.Principal, id string) (*domain.Website, error) {
	s.gotCaller, s.gotID = &caller, id
	return s.website, s.err
}

func (s *stubWebsiteService) Update(_ context.Context, caller domain.Principal, id string, patch map[string]any) error {
	s.gotCaller, s.gotID, s.gotPatch = &caller, id, patch
	return s.err
}

func (s *stubWebsiteService) Delete(_ context.Context, caller domain.Principal, id string) error {
	s.gotCaller, s.gotID = &caller, id
	return s.err
}

func (s *stubWebsiteService) Generate(_ context.Context, caller domain.Principal, in ports.GenerateInput) (*ports.GenerateResult, error) {
	s.gotCaller, s.gotInput = &caller, in
	return s.result, s.err
}

func (s *stubWebsiteService) Regenerate(_ context.Context, caller domain.Principal, id string, in ports.GenerateInput) (*ports.GenerateResult, error) {
	s.gotCaller, s.gotID, s.gotInput = &caller, id, in
	return s.result, s.err
}

func (s *stubWebsiteService) Preview(_ context.Context, caller *domain.Principal, id string) (*domain.Website, error) {
	s.gotCaller, s.gotID = caller, id
	return s.website, s.err
}

var editorPrincipal = &domain.Principal{UserID: "u1", RoleID: "r-editor", RoleName: domain.RoleEditor}

// newContext builds an echo context with a JSON body, the validator installed
// and, when p is non-nil, an authenticated caller.
func newContext(method, target, body string, p *domain.Principal) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if p != nil {
		middleware.SetPrincipal(c, p)
	}
	return c, rec
}

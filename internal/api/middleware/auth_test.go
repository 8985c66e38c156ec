package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sitecraft/website-builder/internal/core/domain"
)

func runAuth(t *testing.T, sessions *stubSessions, req *http.Request) (*domain.Principal, error) {
	t.Helper()
	e := echo.New()
	c := e.NewContext(req, httptest.NewRecorder())

	var got *domain.Principal
	h := Auth(sessions)(func(c echo.Context) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			t.Fatalf("principal not set")
		}
		got = p
		return c.NoContent(http.StatusOK)
	})
	return got, h(c)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	sessions := &stubSessions{tokens: map[string]*domain.Principal{"good": editor}}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")

	p, err := runAuth(t, sessions, req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if p.UserID != "u1" || p.RoleName != domain.RoleEditor {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestAuthMiddleware_QueryTokenFallback(t *testing.T) {
	sessions := &stubSessions{tokens: map[string]*domain.Principal{"good": editor}}
	req := httptest.NewRequest(http.MethodGet, "/preview/abc?token=good", nil)

	p, err := runAuth(t, sessions, req)
	if err != nil || p == nil {
		t.Fatalf("expected query token to authenticate, got %v", err)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	sessions := &stubSessions{tokens: map[string]*domain.Principal{"good": editor}}

	tests := []struct {
		name   string
		header string
		want   error
	}{
		{"missing header", "", domain.ErrTokenMissing},
		{"wrong scheme", "Token good", domain.ErrTokenMalformed},
		{"empty bearer", "Bearer ", domain.ErrTokenMalformed},
		{"unknown token", "Bearer forged", domain.ErrTokenInvalidSignature},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			e := echo.New()
			c := e.NewContext(req, httptest.NewRecorder())
			h := Auth(sessions)(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})
			if err := h(c); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAuthMiddleware_HeaderWinsOverQuery(t *testing.T) {
	sessions := &stubSessions{tokens: map[string]*domain.Principal{"good": editor}}
	req := httptest.NewRequest(http.MethodGet, "/?token=good", nil)
	req.Header.Set("Authorization", "Bearer forged")

	if err := runAuthExpectError(sessions, req); !errors.Is(err, domain.ErrTokenInvalidSignature) {
		t.Fatalf("header token should be used, got %v", err)
	}
}

func runAuthExpectError(sessions *stubSessions, req *http.Request) error {
	e := echo.New()
	c := e.NewContext(req, httptest.NewRecorder())
	return Auth(sessions)(func(c echo.Context) error { return nil })(c)
}

func TestAuthMiddleware_VerifyErrorsPassThrough(t *testing.T) {
	sessions := &stubSessions{err: domain.ErrTokenExpired}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer anything")

	if err := runAuthExpectError(sessions, req); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

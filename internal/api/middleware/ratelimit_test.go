package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sitecraft/website-builder/internal/core/ports"
)

func TestRateLimit_KeysByUserThenIP(t *testing.T) {
	limiter := &stubLimiter{decision: ports.RateDecision{Allowed: true, Remaining: 4}}
	mw := RateLimit(limiter, zerolog.Nop())
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	SetPrincipal(c, editor)
	if err := mw(ok)(c); err != nil {
		t.Fatal(err)
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "4" {
		t.Fatalf("remaining header missing")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	c = e.NewContext(req, httptest.NewRecorder())
	if err := mw(ok)(c); err != nil {
		t.Fatal(err)
	}

	if len(limiter.keys) != 2 || limiter.keys[0] != "user:u1" || limiter.keys[1] != "ip:10.1.2.3" {
		t.Fatalf("unexpected keys: %v", limiter.keys)
	}
}

func TestRateLimit_Rejects(t *testing.T) {
	limiter := &stubLimiter{decision: denied(90*time.Second + 500*time.Millisecond)}
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	h := RateLimit(limiter, zerolog.Nop())(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	if err := h(c); err != nil {
		t.Fatal(err)
	}

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "91" {
		t.Fatalf("unexpected Retry-After: %q", rec.Header().Get("Retry-After"))
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["error"] != "Rate limit exceeded" || body["message"] == "" || body["retry_after"] != float64(91) {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestRateLimit_FailsOpen(t *testing.T) {
	limiter := &stubLimiter{err: errors.New("redis down")}
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	called := false
	h := RateLimit(limiter, zerolog.Nop())(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Fatal("request should pass when the limiter errors")
	}
}

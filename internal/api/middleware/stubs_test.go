package middleware

import (
	"context"
	"time"

	"github.com/sitecraft/website-builder/internal/core/domain"
	"github.com/sitecraft/website-builder/internal/core/ports"
)

// stubSessions maps raw tokens to principals; anything else is a bad signature.
type stubSessions struct {
	tokens map[string]*domain.Principal
	err    error
}

func (s *stubSessions) Issue(string, string) (string, error)     { return "", nil }
func (s *stubSessions) Parse(string) (*ports.TokenClaims, error) { return nil, nil }
func (s *stubSessions) Verify(_ context.Context, token string) (*domain.Principal, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.tokens[token]
	if !ok {
		return nil, domain.ErrTokenInvalidSignature
	}
	return p, nil
}

type stubAuthorizer struct {
	admins map[string]bool
}

func (a *stubAuthorizer) CanAccess(context.Context, string, string, string) bool { return false }
func (a *stubAuthorizer) CanEdit(context.Context, string, string, string) bool   { return false }
func (a *stubAuthorizer) IsAdmin(_ context.Context, roleID string) bool          { return a.admins[roleID] }
func (a *stubAuthorizer) ListScope(context.Context, string, string) (ports.ListWebsitesFilter, error) {
	return ports.ListWebsitesFilter{}, nil
}

type stubLimiter struct {
	decision ports.RateDecision
	err      error
	keys     []string
}

func (l *stubLimiter) Allow(_ context.Context, key string) (ports.RateDecision, error) {
	l.keys = append(l.keys, key)
	return l.decision, l.err
}

var editor = &domain.Principal{UserID: "u1", RoleID: "r-editor", RoleName: domain.RoleEditor}

func denied(after time.Duration) ports.RateDecision {
	return ports.RateDecision{Allowed: false, RetryAfter: after}
}

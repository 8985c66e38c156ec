package ports

import (
	"context"

	"github.com/sitecraft/website-builder/internal/core/domain"
)

// GenerateInput carries the business description used to synthesize content.
type GenerateInput struct {
	BusinessType string
	Industry     string
	Description  string
}

// GenerateResult is returned after a generated website has been persisted.
type GenerateResult struct {
	WebsiteID string
	Content   map[string]any
	Model     string
}

// WebsiteService defines the document lifecycle use cases.
type WebsiteService interface {
	Create(ctx context.Context, caller domain.Principal, content map[string]any) (string, error)
	List(ctx context.Context, caller domain.Principal) ([]*domain.Website, error)
	Get(ctx context.Context, caller domain.Principal, id string) (*domain.Website, error)
	Update(ctx context.Context, caller domain.Principal, id string, patch map[string]any) error
	Delete(ctx context.Context, caller domain.Principal, id string) error
	Generate(ctx context.Context, caller domain.Principal, in GenerateInput) (*GenerateResult, error)
	Regenerate(ctx context.Context, caller domain.Principal, id string, in GenerateInput) (*GenerateResult, error)
	// Preview loads a website for rendering. A nil caller skips the access check.
	Preview(ctx context.Context, caller *domain.Principal, id string) (*domain.Website, error)
}

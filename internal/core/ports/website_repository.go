package ports

import (
	"context"

	"github.com/sitecraft/website-builder/internal/core/domain"
)

// ListWebsitesFilter narrows a website listing. Empty OwnerID means no filter.
type ListWebsitesFilter struct {
	OwnerID string
}

// WebsiteRepository defines persistence operations for website documents.
// Every mutation is a single-document write; concurrent writers are last-writer-wins.
type WebsiteRepository interface {
	Create(ctx context.Context, w *domain.Website) (*domain.Website, error)
	FindByID(ctx context.Context, id string) (*domain.Website, error)
	List(ctx context.Context, filter ListWebsitesFilter) ([]*domain.Website, error)
	// Patch sets each dot-path in fields relative to the content root.
	// Returns domain.ErrWebsiteNotFound when no document matched.
	Patch(ctx context.Context, id string, fields map[string]any) error
	// ReplaceContent overwrites the whole content value, keeping id and owner.
	ReplaceContent(ctx context.Context, id string, content map[string]any) error
	Delete(ctx context.Context, id string) error
}

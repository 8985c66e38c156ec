package ports

import "context"

// Authorizer gates operations on role and ownership. Implementations fail closed.
// An empty ownerID means "no specific resource" (creation or unfiltered listing).
type Authorizer interface {
	CanAccess(ctx context.Context, userID, roleID, ownerID string) bool
	CanEdit(ctx context.Context, userID, roleID, ownerID string) bool
	IsAdmin(ctx context.Context, roleID string) bool
	// ListScope returns the owner filter to apply when listing websites.
	ListScope(ctx context.Context, userID, roleID string) (ListWebsitesFilter, error)
}

// Package cache holds in-process read-through caches for hot lookups.
package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/sitecraft/website-builder/internal/core/domain"
	"github.com/sitecraft/website-builder/internal/core/ports"
)

const maxCachedRoles = 256

// RoleCache wraps a RoleRepository and memoises FindByID, which runs on every
// authenticated request. Writes through this instance invalidate the entry;
// writes from other replicas become visible after the TTL.
type RoleCache struct {
	ports.RoleRepository
	byID *lru.LRU[string, domain.Role]
}

// NewRoleCache returns repo unchanged when ttl is not positive.
func NewRoleCache(repo ports.RoleRepository, ttl time.Duration) ports.RoleRepository {
	if ttl <= 0 {
		return repo
	}
	return &RoleCache{
		RoleRepository: repo,
		byID:           lru.NewLRU[string, domain.Role](maxCachedRoles, nil, ttl),
	}
}

// FindByID serves from cache. Misses are not cached so new roles resolve at once.
func (c *RoleCache) FindByID(ctx context.Context, id string) (*domain.Role, error) {
	if role, ok := c.byID.Get(id); ok {
		return &role, nil
	}
	role, err := c.RoleRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.byID.Add(id, *role)
	out := *role
	return &out, nil
}

func (c *RoleCache) UpdatePermissions(ctx context.Context, id string, permissions []string) error {
	c.byID.Remove(id)
	return c.RoleRepository.UpdatePermissions(ctx, id, permissions)
}

func (c *RoleCache) Delete(ctx context.Context, id string) error {
	c.byID.Remove(id)
	return c.RoleRepository.Delete(ctx, id)
}

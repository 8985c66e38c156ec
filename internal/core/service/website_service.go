package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sitecraft/website-builder/internal/core/domain"
	"github.com/sitecraft/website-builder/internal/core/ports"
)

// AnyField allows every non-reserved top-level content key in partial updates.
const AnyField = "*"

// WebsiteService implements the website document lifecycle.
type WebsiteService struct {
	websites  ports.WebsiteRepository
	users     ports.UserRepository
	authz     ports.Authorizer
	generator ports.ContentGenerator
	metrics   ports.Metrics
	allowed   map[string]struct{}
	log       zerolog.Logger
	now       func() time.Time
}

// NewWebsiteService wires the lifecycle. updateFields is the allow-list of top-level
// content keys a partial update may touch; AnyField lifts the restriction.
func NewWebsiteService(
	websites ports.WebsiteRepository,
	users ports.UserRepository,
	authz ports.Authorizer,
	generator ports.ContentGenerator,
	m ports.Metrics,
	updateFields []string,
	log zerolog.Logger,
) *WebsiteService {
	allowed := make(map[string]struct{}, len(updateFields))
	for _, f := range updateFields {
		if f = strings.TrimSpace(f); f != "" {
			allowed[f] = struct{}{}
		}
	}
	return &WebsiteService{
		websites:  websites,
		users:     users,
		authz:     authz,
		generator: generator,
		metrics:   m,
		allowed:   allowed,
		log:       log,
		now:       time.Now,
	}
}

// Create stores content as-is, owned by the caller.
func (s *WebsiteService) Create(ctx context.Context, caller domain.Principal, content map[string]any) (string, error) {
	if !s.authz.CanEdit(ctx, caller.UserID, caller.RoleID, "") {
		return "", domain.ErrForbidden
	}
	if content == nil {
		content = map[string]any{}
	}

	w, err := s.insert(ctx, caller.UserID, content)
	if err != nil {
		return "", err
	}
	s.metrics.WebsiteCreated("manual")
	s.log.Info().Str("website_id", w.ID).Str("owner_id", caller.UserID).Msg("website created")
	return w.ID, nil
}

// List returns the websites visible to the caller, annotated with owner emails.
func (s *WebsiteService) List(ctx context.Context, caller domain.Principal) ([]*domain.Website, error) {
	filter, err := s.authz.ListScope(ctx, caller.UserID, caller.RoleID)
	if err != nil {
		return nil, err
	}

	sites, err := s.websites.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list websites: %w", err)
	}

	ownerIDs := make([]string, 0, len(sites))
	seen := make(map[string]struct{}, len(sites))
	for _, w := range sites {
		if _, ok := seen[w.OwnerID]; !ok {
			seen[w.OwnerID] = struct{}{}
			ownerIDs = append(ownerIDs, w.OwnerID)
		}
	}
	if len(ownerIDs) > 0 {
		emails, err := s.users.FindEmails(ctx, ownerIDs)
		if err != nil {
			return nil, fmt.Errorf("list websites: owner emails: %w", err)
		}
		for _, w := range sites {
			w.OwnerEmail = emails[w.OwnerID]
		}
	}
	return sites, nil
}

// Get returns one website if the caller may read it.
func (s *WebsiteService) Get(ctx context.Context, caller domain.Principal, id string) (*domain.Website, error) {
	w, err := s.websites.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.authz.CanAccess(ctx, caller.UserID, caller.RoleID, w.OwnerID) {
		return nil, domain.ErrForbidden
	}
	return w, nil
}

// Update merges patch into the content. Keys are dot paths ("hero.heading");
// the first segment must be on the allow-list. A patch that changes nothing succeeds.
func (s *WebsiteService) Update(ctx context.Context, caller domain.Principal, id string, patch map[string]any) error {
	w, err := s.websites.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.authz.CanEdit(ctx, caller.UserID, caller.RoleID, w.OwnerID) {
		return domain.ErrForbidden
	}
	if err := s.validatePatch(patch); err != nil {
		return err
	}
	if err := checkPathsViable(w.Content, patch); err != nil {
		return err
	}

	if err := s.websites.Patch(ctx, id, patch); err != nil {
		return err
	}
	s.log.Info().Str("website_id", id).Str("by", caller.UserID).Int("fields", len(patch)).Msg("website updated")
	return nil
}

// Delete removes a website the caller may edit.
func (s *WebsiteService) Delete(ctx context.Context, caller domain.Principal, id string) error {
	w, err := s.websites.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.authz.CanEdit(ctx, caller.UserID, caller.RoleID, w.OwnerID) {
		return domain.ErrForbidden
	}
	if err := s.websites.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("website_id", id).Str("by", caller.UserID).Msg("website deleted")
	return nil
}

// Generate synthesizes content and stores it as a new website owned by the caller.
// Nothing is persisted when generation fails.
func (s *WebsiteService) Generate(ctx context.Context, caller domain.Principal, in ports.GenerateInput) (*ports.GenerateResult, error) {
	if !s.authz.CanEdit(ctx, caller.UserID, caller.RoleID, "") {
		return nil, domain.ErrForbidden
	}
	if err := validateGenerateInput(in); err != nil {
		return nil, err
	}

	content, model, err := s.generator.Generate(ctx, in)
	if err != nil {
		return nil, err
	}

	w, err := s.insert(ctx, caller.UserID, content)
	if err != nil {
		return nil, err
	}
	s.metrics.WebsiteCreated("generated")
	s.log.Info().Str("website_id", w.ID).Str("owner_id", caller.UserID).Str("model", model).Msg("website generated")
	return &ports.GenerateResult{WebsiteID: w.ID, Content: content, Model: model}, nil
}

// Regenerate replaces an existing website's content in place. Id and owner are kept.
func (s *WebsiteService) Regenerate(ctx context.Context, caller domain.Principal, id string, in ports.GenerateInput) (*ports.GenerateResult, error) {
	w, err := s.websites.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.authz.CanEdit(ctx, caller.UserID, caller.RoleID, w.OwnerID) {
		return nil, domain.ErrForbidden
	}
	if err := validateGenerateInput(in); err != nil {
		return nil, err
	}

	content, model, err := s.generator.Generate(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := s.websites.ReplaceContent(ctx, id, content); err != nil {
		return nil, err
	}
	s.log.Info().Str("website_id", id).Str("by", caller.UserID).Str("model", model).Msg("website regenerated")
	return &ports.GenerateResult{WebsiteID: id, Content: content, Model: model}, nil
}

// Preview loads a website for rendering. A nil caller skips the access check
// and is only passed when previews are public.
func (s *WebsiteService) Preview(ctx context.Context, caller *domain.Principal, id string) (*domain.Website, error) {
	if caller == nil {
		return s.websites.FindByID(ctx, id)
	}
	return s.Get(ctx, *caller, id)
}

func (s *WebsiteService) insert(ctx context.Context, ownerID string, content map[string]any) (*domain.Website, error) {
	now := s.now().UTC()
	w, err := s.websites.Create(ctx, &domain.Website{
		OwnerID:   ownerID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("store website: %w", err)
	}
	return w, nil
}

func (s *WebsiteService) validatePatch(patch map[string]any) error {
	if len(patch) == 0 {
		return fmt.Errorf("%w: no update data provided", domain.ErrValidation)
	}
	_, anyField := s.allowed[AnyField]
	for key := range patch {
		segments := strings.Split(key, ".")
		for _, seg := range segments {
			if seg == "" || strings.HasPrefix(seg, "$") {
				return fmt.Errorf("%w: invalid field path %q", domain.ErrValidation, key)
			}
		}
		top := segments[0]
		if top == domain.MetadataKey {
			return fmt.Errorf("%w: field %q is read-only", domain.ErrValidation, top)
		}
		if _, ok := s.allowed[top]; !ok && !anyField {
			return fmt.Errorf("%w: field %q is not updatable", domain.ErrValidation, top)
		}
		for i := 1; i < len(segments); i++ {
			parent := strings.Join(segments[:i], ".")
			if _, ok := patch[parent]; ok {
				return fmt.Errorf("%w: fields %q and %q overlap", domain.ErrValidation, parent, key)
			}
		}
	}
	return nil
}

// checkPathsViable rejects dot paths that would have to descend through a
// stored scalar or null. Missing parents are created by the store.
func checkPathsViable(content map[string]any, patch map[string]any) error {
	for key := range patch {
		if !pathViable(content, strings.Split(key, ".")) {
			return notViable(key)
		}
	}
	return nil
}

// pathViable walks to the parent of the last segment. Objects take any key,
// arrays only numeric indexes.
func pathViable(node any, segments []string) bool {
	for _, seg := range segments[:len(segments)-1] {
		var next any
		switch n := node.(type) {
		case map[string]any:
			v, ok := n[seg]
			if !ok {
				return true
			}
			next = v
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 {
				return false
			}
			if idx >= len(n) {
				return true
			}
			next = n[idx]
		default:
			return false
		}
		node = next
	}
	switch node.(type) {
	case map[string]any:
		return true
	case []any:
		idx, err := strconv.Atoi(segments[len(segments)-1])
		return err == nil && idx >= 0
	default:
		return false
	}
}

func notViable(key string) error {
	return fmt.Errorf("%w: field path %q goes through a value that is not an object", domain.ErrValidation, key)
}

func validateGenerateInput(in ports.GenerateInput) error {
	if strings.TrimSpace(in.BusinessType) == "" || strings.TrimSpace(in.Industry) == "" {
		return fmt.Errorf("%w: business type and industry are required", domain.ErrValidation)
	}
	return nil
}

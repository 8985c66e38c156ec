package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sitecraft/website-builder/internal/core/domain"
	"github.com/sitecraft/website-builder/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	r.seq++
	c := cloneUser(user)
	c.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindEmails(_ context.Context, ids []string) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = u.Email
		}
	}
	return out, nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, userID, roleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.RoleID = roleID
	return nil
}

func (r *stubUserRepo) delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

type stubRoleRepo struct {
	mu    sync.Mutex
	roles map[string]*domain.Role
}

// newStubRoleRepo seeds the default roles with ids "role-admin", "role-editor", "role-viewer".
func newStubRoleRepo() *stubRoleRepo {
	r := &stubRoleRepo{roles: make(map[string]*domain.Role)}
	for _, d := range domain.DefaultRoles {
		id := "role-" + strings.ToLower(d.Name)
		r.roles[id] = &domain.Role{ID: id, Name: d.Name, Permissions: d.Permissions}
	}
	return r
}

func (r *stubRoleRepo) Create(_ context.Context, role *domain.Role) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.roles {
		if existing.Name == role.Name {
			return nil, domain.ErrRoleExists
		}
	}
	c := *role
	c.ID = "role-" + strings.ToLower(role.Name)
	r.roles[c.ID] = &c
	out := c
	return &out, nil
}

func (r *stubRoleRepo) FindByID(_ context.Context, id string) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[id]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	c := *role
	return &c, nil
}

func (r *stubRoleRepo) FindByName(_ context.Context, name string) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, role := range r.roles {
		if role.Name == name {
			c := *role
			return &c, nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (r *stubRoleRepo) List(_ context.Context) ([]*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Role, 0, len(r.roles))
	for _, role := range r.roles {
		c := *role
		out = append(out, &c)
	}
	return out, nil
}

func (r *stubRoleRepo) UpdatePermissions(_ context.Context, id string, permissions []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[id]
	if !ok {
		return domain.ErrRoleNotFound
	}
	role.Permissions = permissions
	return nil
}

func (r *stubRoleRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.roles[id]; !ok {
		return domain.ErrRoleNotFound
	}
	delete(r.roles, id)
	return nil
}

type stubWebsiteRepo struct {
	mu        sync.Mutex
	sites     map[string]*domain.Website
	seq       int
	createErr error
}

func newStubWebsiteRepo() *stubWebsiteRepo {
	return &stubWebsiteRepo{sites: make(map[string]*domain.Website)}
}

func cloneWebsite(w *domain.Website) *domain.Website {
	c := *w
	c.Content = deepCopy(w.Content)
	return &c
}

func deepCopy(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			out[k] = deepCopy(nested)
			continue
		}
		out[k] = v
	}
	return out
}

func (r *stubWebsiteRepo) Create(_ context.Context, w *domain.Website) (*domain.Website, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.seq++
	c := cloneWebsite(w)
	c.ID = fmt.Sprintf("site-%d", r.seq)
	r.sites[c.ID] = c
	return cloneWebsite(c), nil
}

func (r *stubWebsiteRepo) FindByID(_ context.Context, id string) (*domain.Website, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.sites[id]
	if !ok {
		return nil, domain.ErrWebsiteNotFound
	}
	return cloneWebsite(w), nil
}

func (r *stubWebsiteRepo) List(_ context.Context, f ports.ListWebsitesFilter) ([]*domain.Website, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Website
	for _, w := range r.sites {
		if f.OwnerID != "" && w.OwnerID != f.OwnerID {
			continue
		}
		out = append(out, cloneWebsite(w))
	}
	return out, nil
}

// Patch mirrors the Mongo $set on "data.<path>", including its refusal of
// overlapping paths and of paths through non-object values.
func (r *stubWebsiteRepo) Patch(_ context.Context, id string, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.sites[id]
	if !ok {
		return domain.ErrWebsiteNotFound
	}
	for path := range fields {
		for other := range fields {
			if strings.HasPrefix(path, other+".") {
				return fmt.Errorf("%w: conflicting update paths", domain.ErrValidation)
			}
		}
	}

	content := deepCopy(w.Content)
	if content == nil {
		content = map[string]any{}
	}
	for path, v := range fields {
		segs := strings.Split(path, ".")
		cur := content
		for _, seg := range segs[:len(segs)-1] {
			switch next := cur[seg].(type) {
			case nil:
				if _, exists := cur[seg]; exists {
					return fmt.Errorf("%w: cannot create field in null", domain.ErrValidation)
				}
				m := map[string]any{}
				cur[seg] = m
				cur = m
			case map[string]any:
				cur = next
			default:
				return fmt.Errorf("%w: cannot create field in %T", domain.ErrValidation, next)
			}
		}
		cur[segs[len(segs)-1]] = v
	}
	w.Content = content
	return nil
}

func (r *stubWebsiteRepo) ReplaceContent(_ context.Context, id string, content map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.sites[id]
	if !ok {
		return domain.ErrWebsiteNotFound
	}
	w.Content = deepCopy(content)
	return nil
}

func (r *stubWebsiteRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sites[id]; !ok {
		return domain.ErrWebsiteNotFound
	}
	delete(r.sites, id)
	return nil
}

func (r *stubWebsiteRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sites)
}

// fakeTextModel returns a canned answer or error.
type fakeTextModel struct {
	text   string
	model  string
	err    error
	prompt string
	calls  int
}

func (m *fakeTextModel) Generate(_ context.Context, prompt string) (string, string, error) {
	m.calls++
	m.prompt = prompt
	if m.err != nil {
		return "", "", m.err
	}
	return m.text, m.model, nil
}

const validGeneratedJSON = `{
  "hero": {"heading": "Trattoria Roma", "subheading": "Authentic Italian"},
  "about": {"title": "About us", "content": "Family run since 1962."},
  "services": [
    {"name": "Dine-in", "description": "Cozy tables"},
    {"name": "Takeaway", "description": "Ready in 15 minutes"},
    {"name": "Catering", "description": "Events of any size"}
  ],
  "contact": {"title": "Visit us", "content": "Via Roma 1"}
}`

// recordingMetrics counts the events it receives.
type recordingMetrics struct {
	mu      sync.Mutex
	created map[string]int
	results map[string]int
	latency int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{created: map[string]int{}, results: map[string]int{}}
}

func (m *recordingMetrics) WebsiteCreated(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created[source]++
}

func (m *recordingMetrics) GenerationFinished(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[result]++
}

func (m *recordingMetrics) GenerationLatency(string, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latency++
}

package domain

// Reserved role names. Only the name drives authorization decisions;
// the permission list is advisory.
const (
	RoleAdmin  = "Admin"
	RoleEditor = "Editor"
	RoleViewer = "Viewer"

	// RoleUnknown is reported when a token references a role that no longer exists.
	RoleUnknown = "Unknown"
)

// DefaultRoles are seeded at startup when absent.
var DefaultRoles = []Role{
	{Name: RoleAdmin, Permissions: []string{"manage_roles", "view_websites", "edit_any_website"}},
	{Name: RoleEditor, Permissions: []string{"view_own_websites", "edit_own_website", "generate_website"}},
	{Name: RoleViewer, Permissions: []string{"view_websites"}},
}

// Role is a named permission tier attached to a User.
type Role struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

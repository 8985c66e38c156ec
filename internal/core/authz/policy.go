// Package authz decides whether a caller may read or modify a website.
//
// Only the role name carries meaning: Admin, Editor and Viewer are reserved.
// Any other name is granted nothing by CanAccess and CanEdit.
package authz

import "github.com/sitecraft/website-builder/internal/core/domain"

// AccessAllowed reports whether a caller holding roleName may read a resource
// owned by ownerID. An empty ownerID means no specific resource.
//
// Viewers read everything regardless of ownership.
func AccessAllowed(roleName, userID, ownerID string) bool {
	switch roleName {
	case domain.RoleAdmin, domain.RoleViewer:
		return true
	case domain.RoleEditor:
		return ownerID == "" || ownerID == userID
	default:
		return false
	}
}

// EditAllowed reports whether a caller holding roleName may create (empty ownerID)
// or modify a resource owned by ownerID.
func EditAllowed(roleName, userID, ownerID string) bool {
	switch roleName {
	case domain.RoleAdmin:
		return true
	case domain.RoleEditor:
		return ownerID == "" || ownerID == userID
	default:
		return false
	}
}

// ListOwnerFilter returns the owner restriction applied when listing websites.
// Editors see only their own documents; every other role sees all of them.
func ListOwnerFilter(roleName, userID string) string {
	if roleName == domain.RoleEditor {
		return userID
	}
	return ""
}

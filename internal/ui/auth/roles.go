package auth

import "github.com/childcare-management/childcare-ui/internal/ui/types"

const (
	AdminArea = "/admin"
	StaffArea = "/staff"
)

// AreaPath returns the base path of the pages a role works in: /admin for admins, /staff for everyone else
func AreaPath(role types.Role) string {
	if role.IsAdmin() {
		return AdminArea
	}
	return StaffArea
}

// ListingPath returns the listing page of resource for role, e.g. /staff/children
func ListingPath(role types.Role, resource string) string {
	return AreaPath(role) + "/" + resource
}

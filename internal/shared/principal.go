package shared

// Roles the upstream issues. A superadmin can do everything an admin can.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
	RoleCollector  = "collector"
	RoleDweller    = "dweller"
)

// KnownRole reports whether role is one the console recognizes.
func KnownRole(role string) bool {
	switch role {
	case RoleAdmin, RoleSuperAdmin, RoleCollector, RoleDweller:
		return true
	}
	return false
}

// Principal is the authenticated identity plus its upstream credential.
// The token never leaves the session payload except through Token().
type Principal struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}

// HasRole reports whether the principal's role is in the allowed set. A
// superadmin satisfies an admin requirement.
func (p *Principal) HasRole(allowed ...string) bool {
	if p == nil {
		return false
	}
	for _, role := range allowed {
		if p.Role == role {
			return true
		}
		if role == RoleAdmin && p.Role == RoleSuperAdmin {
			return true
		}
	}
	return false
}

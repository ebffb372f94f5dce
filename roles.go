package memberauth

// MemberRole is the member's platform role
type MemberRole = string

const (
	// RoleUser is an individual member
	RoleUser MemberRole = "USER"
	// RoleOrganization is a partner organization account
	RoleOrganization MemberRole = "ORGANIZATION"
	// RoleAdmin is a platform administrator
	RoleAdmin MemberRole = "ADMIN"
)

// IsValidRole checks if the role is one of the predefined valid roles
func IsValidRole(r MemberRole) bool {
	switch r {
	case RoleUser, RoleOrganization, RoleAdmin:
		return true
	default:
		return false
	}
}

// RoleIsAtLeast checks if a role meets the minimum required level
func RoleIsAtLeast(r, minRole MemberRole) bool {
	currentLevel, exists := roleHierarchy[r]
	if !exists {
		return false
	}

	minLevel, exists := roleHierarchy[minRole]
	if !exists {
		return false
	}

	return currentLevel >= minLevel
}

var roleHierarchy = map[MemberRole]int{
	RoleUser:         0,
	RoleOrganization: 1,
	RoleAdmin:        2,
}

// GetAllRoles returns all predefined roles in hierarchical order
func GetAllRoles() []MemberRole {
	return []MemberRole{
		RoleUser,
		RoleOrganization,
		RoleAdmin,
	}
}

// ParseRole safely parses a string into a MemberRole type
func ParseRole(roleStr string) (MemberRole, bool) {
	role := MemberRole(roleStr)
	return role, IsValidRole(role)
}

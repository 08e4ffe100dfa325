package client

// IsValid checks if the role is one of the predefined valid roles
func RoleIsValid(r UserRole) bool {
	switch r {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, RoleIsValid(role)
}

// GetAllRoles returns all predefined roles in hierarchical order
func GetAllRoles() []UserRole {
	return []UserRole{
		RoleUser,
		RoleManager,
		RoleAdmin,
	}
}

var roleHierarchy = map[UserRole]int{
	RoleUser:    0,
	RoleManager: 1,
	RoleAdmin:   2,
}

// RoleIsAtLeast checks if the role meets the minimum required level
func RoleIsAtLeast(r, minRole UserRole) bool {
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

// RoleIn reports whether the role appears in the allowed list.
func RoleIn(r UserRole, allowed []UserRole) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// CanApproveRequests checks if this role can approve or reject leave requests
func CanApproveRequests(r UserRole) bool {
	return RoleIsAtLeast(r, RoleManager)
}

// CanManageLeaveTypes checks if this role can create, edit, or delete leave types
func CanManageLeaveTypes(r UserRole) bool {
	return RoleIsAtLeast(r, RoleAdmin)
}

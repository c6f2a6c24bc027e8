package auth

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole normalizes a stored role string. Anything that is not an
// administrator is treated as a regular user.
func ParseRole(s string) Role {
	if s == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

// Caller is the authenticated identity attached to a request.
type Caller struct {
	ID    string
	Email string
	Role  Role
}

// CanViewAllOrders reports whether the caller may list orders without the
// customer-email scope.
func CanViewAllOrders(c Caller) bool {
	return c.Role == RoleAdmin
}

// CanManageOrders gates the mutation paths (update, delete).
func CanManageOrders(c Caller) bool {
	return c.Role == RoleAdmin
}

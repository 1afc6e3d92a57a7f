package objects

import "slices"

// Role is a coarse account role. A user may hold several.
type Role string

const (
	// RoleVendor marks accounts that may own stores and products.
	RoleVendor Role = "vendor"
	// RoleBuyer marks accounts that may place orders and review products.
	RoleBuyer Role = "buyer"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleVendor || r == RoleBuyer
}

// User is an account row. Password holds the bcrypt hash, never plaintext.
type User struct {
	ID       int      `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Password string   `json:"-"`
	IsStaff  bool     `json:"is_staff"`
	Roles    []Role   `json:"roles"`
	Scopes   []string `json:"scopes"`
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role Role) bool {
	return slices.Contains(u.Roles, role)
}

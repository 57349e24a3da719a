package domain

import "time"

// Role enumerates account capability levels. Admin and superadmin are
// equivalent for gating purposes; customer is never granted elevated access.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
	RoleCustomer   Role = "customer"
)

// Valid reports whether the role is a known value.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSuperadmin, RoleCustomer:
		return true
	}
	return false
}

// Elevated reports whether the role passes admin-gated endpoints.
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleSuperadmin
}

// User is a credential record. Usernames are unique per restaurant, not
// globally; every lookup is scoped by RestaurantSlug.
type User struct {
	ID             string
	Username       string
	PasswordHash   string
	Role           Role
	RestaurantSlug string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UserContext is the projection of a credential record attached to an
// authenticated request.
type UserContext struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Role           Role   `json:"role"`
	RestaurantSlug string `json:"restaurant_slug"`
}

package dto

// LoginRequest payload for POST /auth/login.
type LoginRequest struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	RestaurantSlug string `json:"restaurant_slug"`
}

// RefreshRequest payload for POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RegisterRequest payload for POST /auth/register. The account is created in
// the caller's own tenant; only superadmins may set a foreign RestaurantSlug.
// Role defaults to admin.
type RegisterRequest struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	RestaurantSlug string `json:"restaurant_slug,omitempty"`
	Role           string `json:"role,omitempty"`
}

// RegisterResponse returns the new credential record id.
type RegisterResponse struct {
	ID string `json:"id"`
}

// UserUpdateRequest payload for PATCH /api/admin/users/:username. Absent
// fields are left untouched.
type UserUpdateRequest struct {
	IsActive *bool  `json:"is_active,omitempty"`
	Role     string `json:"role,omitempty"`
}

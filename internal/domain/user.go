package domain

import "time"

// Roles assignable to a user account.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// User represents a registered account. Wishlist holds product ids in
// insertion order; membership is what matters, order only affects display.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Wishlist     []string  `json:"wishlist"`
	CreatedAt    time.Time `json:"createdAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

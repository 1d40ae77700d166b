package model

import "time"

const (
	RoleCustomer   = "customer"
	RoleRestaurant = "restaurant"
	RoleAdmin      = "admin"
)

// User represents an account in the marketplace
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Do not expose password hash in JSON responses
	Phone        *string   `json:"phone,omitempty"`
	Role         string    `json:"role"`
	Avatar       *string   `json:"avatar,omitempty"`
	Favorites    []string  `json:"favorites"`
	Address      *string   `json:"address,omitempty"`
	City         *string   `json:"city,omitempty"`
	State        *string   `json:"state,omitempty"`
	Country      *string   `json:"country,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasFavorite reports whether restaurantID is in the user's favorites.
func (u *User) HasFavorite(restaurantID string) bool {
	for _, id := range u.Favorites {
		if id == restaurantID {
			return true
		}
	}
	return false
}

// UserSummary is the identity block returned by auth endpoints
type UserSummary struct {
	ID    string `json:"id"`
	Role  string `json:"role"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Role: u.Role, Name: u.Name, Email: u.Email}
}

// SignupRequest is used for creating an account
type SignupRequest struct {
	Name      string  `json:"name" binding:"required"`
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=6"`
	Role      string  `json:"role" binding:"required,oneof=customer restaurant"`
	Phone     *string `json:"phone"`
	OwnerName *string `json:"ownerName"`
	Location  string  `json:"location"`
	Cuisine   *string `json:"cuisine"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=customer restaurant admin"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// UpdateProfileRequest uses pointers so absent fields are left untouched.
// An empty string clears an optional field.
type UpdateProfileRequest struct {
	Name    *string `json:"name,omitempty" binding:"omitempty,min=1"`
	Email   *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone   *string `json:"phone,omitempty"`
	Avatar  *string `json:"avatar,omitempty"`
	Address *string `json:"address,omitempty"`
	City    *string `json:"city,omitempty"`
	State   *string `json:"state,omitempty"`
	Country *string `json:"country,omitempty"`
}

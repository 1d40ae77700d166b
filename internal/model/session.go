package model

import "time"

// Session is the server-side record a session token points at. Deleting
// it revokes every copy of the token.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Actor is the identity and role resolved from a valid session. It is
// built once per request and passed explicitly to every operation.
type Actor struct {
	UserID string
	Role   string
}

func (a *Actor) Is(role string) bool {
	return a != nil && a.Role == role
}

package domain

import "time"

// User roles understood by the authorization and notification rules.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an identity in the directory.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Actor is the authenticated identity performing an operation, as resolved
// by the auth layer. Authorization predicates evaluate against it without
// further I/O.
type Actor struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

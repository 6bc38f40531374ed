package models

import "github.com/google/uuid"

// Caller is the authenticated identity making a request, derived from the
// session token and passed explicitly into every service operation.
type Caller struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
}

// IsAdmin reports whether the caller has the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

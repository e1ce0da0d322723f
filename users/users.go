package users

import "strings"

// Role represents a user's privilege level as reported by the InvestAI backend.
type Role string

const (
	RoleUser  Role = "user"  // Regular account, owns portfolios and transactions
	RoleAdmin Role = "admin" // Can manage other accounts through the admin endpoints
)

// ParseRole normalises a server-side role string. Unknown values degrade to
// RoleUser so a new backend role never grants admin access by accident.
func ParseRole(s string) Role {
	if Role(strings.ToLower(strings.TrimSpace(s))) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// User is the client-side snapshot of the authenticated user's profile.
type User struct {
	ID         string `json:"id,omitempty"`         // Unique identifier for the user
	Email      string `json:"email,omitempty"`      // User's email address
	Role       Role   `json:"role,omitempty"`       // Privilege level (user/admin)
	FirstName  string `json:"firstName,omitempty"`  // First name of the user
	LastName   string `json:"lastName,omitempty"`   // Last name of the user
	MFAEnabled bool   `json:"mfaEnabled,omitempty"` // Whether multi-factor auth is active
}

// IsAdmin returns true if the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// FullName joins the first and last name, tolerating either being empty.
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

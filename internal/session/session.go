// Package session resolves the caller's authentication state from the auth
// backend and models the role/status claims the gate decides on.
package session

import "time"

// Role is the closed set of marketplace account roles.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleProvider Role = "PROVIDER"
	RoleAdmin    Role = "ADMIN"
	// RoleUnassigned is the pre-onboarding state: the account exists but has
	// not yet chosen between customer and provider.
	RoleUnassigned Role = "NONE"
)

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleProvider, RoleAdmin, RoleUnassigned:
		return true
	}
	return false
}

// Assigned reports whether onboarding completed.
func (r Role) Assigned() bool {
	return r == RoleCustomer || r == RoleProvider || r == RoleAdmin
}

// AccountStatus gates all non-public access when suspended.
type AccountStatus string

const (
	StatusActive    AccountStatus = "ACTIVE"
	StatusSuspended AccountStatus = "SUSPENDED"
)

// Valid reports whether the status is one of the known variants.
func (s AccountStatus) Valid() bool {
	return s == StatusActive || s == StatusSuspended
}

// User carries the identity and claims returned by the auth backend.
type User struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	EmailVerified bool          `json:"emailVerified"`
	Image         string        `json:"image,omitempty"`
	Role          Role          `json:"role"`
	AccountStatus AccountStatus `json:"accountStatus"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// Session is the token record backing the cookie.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	IPAddress string    `json:"ipAddress,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
}

// State is the per-request resolved authentication state. A nil *State means
// unauthenticated; lookup failures collapse to nil as well.
type State struct {
	User    User    `json:"user"`
	Session Session `json:"session"`
}

// Suspended reports whether the account is present and suspended.
func (s *State) Suspended() bool {
	return s != nil && s.User.AccountStatus == StatusSuspended
}

// Package auth contains domain-level types for portal sessions and credentials.
// It is pure and free of transport/storage concerns.
package auth

import (
	"strings"
	"time"
)

// Role represents the portal role assigned by the backend at registration.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Valid reports whether r is one of the roles the backend issues.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// UserProfile is the identity the backend returns on login.
// Role is fixed after registration; StudentID and Faculty are editable.
type UserProfile struct {
	Username  string `json:"username"`
	Role      Role   `json:"role"`
	Email     string `json:"email,omitempty"`
	StudentID string `json:"student_id,omitempty"`
	Faculty   string `json:"faculty,omitempty"`
}

// Complete reports whether the profile carries the fields a session needs.
func (p UserProfile) Complete() bool {
	return strings.TrimSpace(p.Username) != "" && p.Role.Valid()
}

// ProfileUpdate carries the optional fields of a profile update.
// Nil or empty fields retain their previous values.
type ProfileUpdate struct {
	StudentID *string `json:"student_id,omitempty" validate:"omitempty,max=32"`
	Faculty   *string `json:"faculty,omitempty"    validate:"omitempty,max=128"`
}

// Apply merges the supplied fields into p and returns the result.
func (u ProfileUpdate) Apply(p UserProfile) UserProfile {
	if u.StudentID != nil && *u.StudentID != "" {
		p.StudentID = *u.StudentID
	}
	if u.Faculty != nil && *u.Faculty != "" {
		p.Faculty = *u.Faculty
	}
	return p
}

// LoginInput is the login form payload.
// RememberMe selects the durable storage scope; it is never sent to the backend.
type LoginInput struct {
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"-"`
}

// LoginResult is the backend's login response body.
type LoginResult struct {
	Access    string `json:"access"`
	Refresh   string `json:"refresh"`
	Username  string `json:"username"`
	Role      Role   `json:"role"`
	Email     string `json:"email"`
	StudentID string `json:"student_id,omitempty"`
	Faculty   string `json:"faculty,omitempty"`
}

// Profile extracts the user profile from a login response.
func (r LoginResult) Profile() UserProfile {
	return UserProfile{
		Username:  r.Username,
		Role:      r.Role,
		Email:     r.Email,
		StudentID: r.StudentID,
		Faculty:   r.Faculty,
	}
}

// RegisterInput is the registration form payload.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Password string `json:"password" validate:"required,min=6"`
	Email    string `json:"email"    validate:"required,email"`
	Role     Role   `json:"role"     validate:"required,oneof=student teacher"`
}

// Scope identifies which storage scope holds a persisted session.
type Scope string

const (
	ScopeNone      Scope = ""
	ScopeDurable   Scope = "durable"
	ScopeEphemeral Scope = "ephemeral"
)

// PersistedSession is the serialized form of a session in one storage scope.
type PersistedSession struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	User         *UserProfile `json:"user"`
	SavedAt      time.Time    `json:"saved_at"`
}

// Valid reports whether the persisted data can restore a session.
func (p PersistedSession) Valid() bool {
	return p.Token != "" && p.User != nil && p.User.Complete()
}

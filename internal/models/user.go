package models

// Role enum
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleDoctor Role = "doctor"
)

// Identity is the signed-in user as derived from the access token claims.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Name  string `json:"name,omitempty"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// IsDoctor reports whether the identity carries the doctor role.
func (i Identity) IsDoctor() bool {
	return i.Role == RoleDoctor
}

// Credentials are only held for the duration of a login call.
type Credentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserAccount is the backend's view of a dashboard account.
type UserAccount struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Role       Role   `json:"role"`
	IsActive   bool   `json:"is_active"`
	DateJoined string `json:"date_joined,omitempty"`
}

// UserRequest is the payload for creating or registering an account.
type UserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Role      Role   `json:"role" binding:"required,oneof=admin doctor"`
}

// UserUpdate is a partial account update; the password is only sent when set.
type UserUpdate struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Role      Role   `json:"role,omitempty" binding:"omitempty,oneof=admin doctor"`
	Password  string `json:"password,omitempty" binding:"omitempty,min=8"`
}

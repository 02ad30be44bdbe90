package models

// TokenPair is the bearer credential pair issued by the login endpoint.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// LoginUser is the optional user object returned next to the tokens.
type LoginUser struct {
	ID        any    `json:"id,omitempty"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Role      Role   `json:"role,omitempty"`
}

// LoginResponse represents the response body of a successful login.
type LoginResponse struct {
	Access  string     `json:"access"`
	Refresh string     `json:"refresh"`
	User    *LoginUser `json:"user,omitempty"`
}

// RefreshResponse represents the response body of a token refresh.
type RefreshResponse struct {
	Access string `json:"access"`
}

package models

// Credentials carries the login/signup form fields.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by /auth/login and /auth/signup.
type AuthResponse struct {
	Token string `json:"token"`
	ID    int64  `json:"id"`
	Role  string `json:"role,omitempty"`
	Error string `json:"error,omitempty"`
}

// Session is the persisted client authentication state.
type Session struct {
	Token  string
	UserID *int64
}

// Authenticated reports whether a token is present.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

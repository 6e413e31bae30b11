package identity

import (
	"time"
)

// RegisterRequest represents an account registration request.
type RegisterRequest struct {
	Username  string `json:"username"`
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
}

// LookupRequest asks whether a username exists.
type LookupRequest struct {
	Username string `json:"username"`
}

// AuthenticateRequest carries credentials to verify.
type AuthenticateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// GetUserRequest represents a get user request.
type GetUserRequest struct {
	UserID string `json:"user_id"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// UserReply is returned by every identity service. Domain failures are
// reported through Error (and Fields for validation) rather than as a
// transport error, so callers can tell the causes apart.
type UserReply struct {
	User   *UserResponse       `json:"user,omitempty"`
	Error  string              `json:"error,omitempty"`
	Fields map[string][]string `json:"fields,omitempty"`
}

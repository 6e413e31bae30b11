package session

// CreateRequest starts a session for an authenticated user.
type CreateRequest struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// TokenRequest carries a session token.
type TokenRequest struct {
	Token string `json:"token"`
}

// SessionReply describes a session. An empty Token means anonymous.
type SessionReply struct {
	Token    string `json:"token,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
}

// DestroyReply acknowledges a destroy request.
type DestroyReply struct {
	Destroyed bool `json:"destroyed"`
}

package api

import "time"

// --- Item types ---

// CreateItemRequest is the request body for POST /api/v1/todos/.
// A non-empty URL selects the link shape; otherwise a to-do is created from
// Title. Body only applies to the link shape.
type CreateItemRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Body  string `json:"body"`
}

// UpdateItemRequest is the request body for PUT/PATCH /api/v1/todos/{id}.
// Which fields apply depends on the stored item's shape; the short code is
// immutable and has no request field.
type UpdateItemRequest struct {
	Title      string `json:"title"`
	IsComplete bool   `json:"is_complete"`
	URL        string `json:"url"`
	Body       string `json:"body"`
}

// ItemResponse is the JSON representation of a single item. To-do rows carry
// empty url and short_code; link rows carry an empty title.
type ItemResponse struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	IsComplete bool      `json:"is_complete"`
	URL        string    `json:"url"`
	ShortCode  string    `json:"short_code"`
	Body       string    `json:"body"`
	Visits     int64     `json:"visits"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ItemListResponse is the paginated {data, meta} envelope for GET /api/v1/todos/.
type ItemListResponse struct {
	Data []ItemResponse `json:"data"`
	Meta Meta           `json:"meta"`
}

// StatResponse is one row of GET /api/v1/todos/stats.
type StatResponse struct {
	ID        int64  `json:"id"`
	URL       string `json:"url"`
	ShortCode string `json:"short_code"`
	Visits    int64  `json:"visits"`
}

// StatsResponse is the envelope for GET /api/v1/todos/stats.
type StatsResponse struct {
	Data []StatResponse `json:"data"`
}

// --- Auth types ---

// RegisterRequest is the request body for POST /api/v1/auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the request body for POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the JSON representation of a user. The credential hash is
// never exposed.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse is returned by login: the user plus a freshly issued bearer
// token. The plaintext token appears here once and is never retrievable again.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// --- Token types ---

// CreateTokenRequest is the request body for POST /api/v1/tokens.
type CreateTokenRequest struct {
	Name      string     `json:"name"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// TokenResponse is the JSON representation of an API token.
type TokenResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	LastUsedAt *time.Time `json:"last_used_at"`
	ExpiresAt  *time.Time `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
	RevokedAt  *time.Time `json:"revoked_at"`
}

// TokenCreatedResponse is TokenResponse plus the one-time plaintext.
type TokenCreatedResponse struct {
	TokenResponse
	Token string `json:"token"`
}

// TokenListResponse is the envelope for GET /api/v1/tokens.
type TokenListResponse struct {
	Tokens []*TokenResponse `json:"tokens"`
}

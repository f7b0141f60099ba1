package users

type TokenType string

const (
	TokenTypeRefresh TokenType = "REFRESH"
	TokenTypeAPI     TokenType = "API"
)

// SessionToken is one entry of the user's active sessions (GET /v1/users/me/token).
// Timestamps are kept as sent; the backend does not always include a zone.
type SessionToken struct {
	ID         ID        `json:"id"`
	Type       TokenType `json:"type,omitempty"`
	UserAgent  string    `json:"userAgent,omitempty"`
	IssuedAt   string    `json:"issuedAt,omitempty"`
	Expiration string    `json:"expiration,omitempty"`
	LastUsed   string    `json:"lastUsed,omitempty"`
}

// IsCurrentSession reports whether this is the refresh token the current
// access token was minted from.
func (t SessionToken) IsCurrentSession(parentTokenID string) bool {
	return parentTokenID != "" && t.Type == TokenTypeRefresh && string(t.ID) == parentTokenID
}

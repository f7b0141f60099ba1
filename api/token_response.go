package api

// TokenResponse is the body returned by /auth/token and /auth/renew.
type TokenResponse struct {
	// Token is the JWT access token.
	// Usage: "Authorization: Bearer <token>"
	// Lifespan: short-lived; the exp claim is authoritative.
	Token string `json:"token"`
}

// Credentials is the body of /auth/token.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Provider is one entry of the OAuth provider registry.
type Provider struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	ImageURL string `json:"imageUrl,omitempty"`
}

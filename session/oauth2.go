package session

import (
	"golang.org/x/oauth2"

	apperrors "github.com/jrsteele09/go-auth-console/internal/errors"
	"github.com/jrsteele09/go-auth-console/token/jwt"
)

var _ oauth2.TokenSource = (*Manager)(nil)

// Token exposes the current access token as an oauth2 bearer token so the
// Manager can feed authenticated API calls directly.
func (m *Manager) Token() (*oauth2.Token, error) {
	raw := m.AccessToken()
	if raw == "" {
		return nil, apperrors.ErrNoSession
	}
	token := &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}
	if exp, ok := jwt.ExpiresAt(raw); ok {
		token.Expiry = exp
	}
	return token, nil
}

package api

import (
	"context"
	"net/http"

	apperrors "github.com/jrsteele09/go-auth-console/internal/errors"
)

const (
	pathAuthToken              = "/auth/token"
	pathAuthRenew              = "/auth/renew"
	pathAuthLogout             = "/auth/logout"
	pathAuthOAuthRegistrations = "/auth/oauth-registrations"
)

// IssueToken exchanges username and password for an access token. The
// backend also sets the refresh cookie on the client's jar.
func (c *Client) IssueToken(ctx context.Context, username, password string) (string, error) {
	var resp TokenResponse
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     pathAuthToken,
		body:     Credentials{Username: username, Password: password},
		fallback: "login failed",
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", apperrors.Wrapf(apperrors.ErrInvalidToken, "%s returned no token", pathAuthToken)
	}
	return resp.Token, nil
}

// Renew mints a new access token from the refresh cookie. currentToken is
// sent as a bearer credential when non-empty.
func (c *Client) Renew(ctx context.Context, currentToken string) (string, error) {
	req := request{
		method:   http.MethodPost,
		path:     pathAuthRenew,
		fallback: "token renewal failed",
	}
	if currentToken != "" {
		req.tokens = bearer(currentToken)
	}

	var resp TokenResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", apperrors.Wrapf(apperrors.ErrInvalidToken, "%s returned no token", pathAuthRenew)
	}
	return resp.Token, nil
}

// Logout asks the backend to revoke the session behind accessToken.
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	return c.do(ctx, request{
		method:   http.MethodPost,
		path:     pathAuthLogout,
		tokens:   bearer(accessToken),
		fallback: "logout failed",
	}, nil)
}

// OAuthProviders lists the third-party login providers keyed by
// registration id. Any failure yields an empty map.
func (c *Client) OAuthProviders(ctx context.Context) map[string]Provider {
	providers := make(map[string]Provider)
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   pathAuthOAuthRegistrations,
	}, &providers)
	if err != nil {
		c.log.Warn().Err(err).Msg("failed to load OAuth providers")
		return map[string]Provider{}
	}
	return providers
}

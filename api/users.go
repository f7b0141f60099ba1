package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-auth-console/users"
	"golang.org/x/oauth2"
)

const (
	pathUsersMe       = "/v1/users/me"
	pathUsersMeTokens = "/v1/users/me/token"
)

// Me resolves the identity behind accessToken.
func (c *Client) Me(ctx context.Context, accessToken string) (*users.User, error) {
	var user users.User
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     pathUsersMe,
		tokens:   bearer(accessToken),
		fallback: "failed to load current user",
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// MyTokens lists the caller's active sessions and API tokens.
func (c *Client) MyTokens(ctx context.Context, tokens oauth2.TokenSource) ([]users.SessionToken, error) {
	var list []users.SessionToken
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     pathUsersMeTokens,
		tokens:   tokens,
		fallback: "failed to load tokens",
	}, &list)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []users.SessionToken{}
	}
	return list, nil
}

// DeleteMyToken ends one of the caller's sessions.
func (c *Client) DeleteMyToken(ctx context.Context, tokens oauth2.TokenSource, tokenID string) error {
	return c.do(ctx, request{
		method:   http.MethodDelete,
		path:     pathUsersMeTokens + "/" + url.PathEscape(tokenID),
		tokens:   tokens,
		fallback: "failed to delete token",
	}, nil)
}

package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/jrsteele09/go-auth-console/api"
	"github.com/jrsteele09/go-auth-console/internal/config"
	"github.com/jrsteele09/go-auth-console/server"
	"github.com/jrsteele09/go-auth-console/session"
	"github.com/jrsteele09/go-auth-console/session/sessionfakes"
	"github.com/jrsteele09/go-auth-console/store/storefake"
	"github.com/jrsteele09/go-auth-console/users"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	handler  http.Handler
	manager  *session.Manager
	auth     *sessionfakes.Auth
	identity *sessionfakes.Identity
	store    *storefake.Store
}

type providerList map[string]api.Provider

func (p providerList) OAuthProviders(context.Context) map[string]api.Provider {
	return p
}

type verifierFunc func(ctx context.Context, rawToken string) error

func (f verifierFunc) Verify(ctx context.Context, rawToken string) error {
	return f(ctx, rawToken)
}

func setupTestFixture(t *testing.T, opts ...server.Option) *fixture {
	t.Helper()
	t.Setenv("ENV", "TEST")

	f := &fixture{
		auth: &sessionfakes.Auth{},
		identity: &sessionfakes.Identity{User: &users.User{
			ID:        "7",
			Email:     "ada@example.com",
			FirstName: "Ada",
			LastName:  "Lovelace",
			Roles:     []users.Role{{Name: "ADMIN"}},
		}},
		store: storefake.New(""),
	}
	f.manager = session.NewManager(f.auth, f.identity, f.store, sessionfakes.DefaultSessionConfig())
	t.Cleanup(f.manager.Close)

	providers := providerList{"github": {Name: "GitHub", URL: "http://localhost:8098/oauth2/authorization/github"}}
	f.handler = server.New(config.New(), f.manager, providers, opts...)
	return f
}

func (f *fixture) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func (f *fixture) doWithHeaders(t *testing.T, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func callbackURL(token string) string {
	return server.RouteAuthCallback + "?token=" + url.QueryEscape(token)
}

func TestAuthCallback(t *testing.T) {
	t.Run("installs the token and confirms", func(t *testing.T) {
		f := setupTestFixture(t)
		token := sessionfakes.Token("ada@example.com", time.Now().Add(15*time.Minute))

		rec := f.do(t, http.MethodGet, callbackURL(token))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Signed in as Ada Lovelace")
		require.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
		require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
		require.Equal(t, token, f.manager.AccessToken())
		require.Equal(t, session.LoggedIn, f.manager.State())
	})

	t.Run("redirects to the frontend without the token", func(t *testing.T) {
		t.Setenv("FRONTEND_URL", "http://localhost:3000/")
		f := setupTestFixture(t)

		rec := f.do(t, http.MethodGet, callbackURL(sessionfakes.Token("ada@example.com", time.Now().Add(15*time.Minute))))

		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "http://localhost:3000/", rec.Header().Get("Location"))
	})

	t.Run("provider error", func(t *testing.T) {
		f := setupTestFixture(t)

		rec := f.do(t, http.MethodGet, server.RouteAuthCallback+"?error=access_denied&error_description=denied")

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "access_denied")
		require.Equal(t, session.LoggedOut, f.manager.State())
	})

	t.Run("missing token", func(t *testing.T) {
		f := setupTestFixture(t)

		rec := f.do(t, http.MethodGet, server.RouteAuthCallback)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Empty(t, f.identity.Tokens())
	})

	t.Run("token rejected by identity lookup", func(t *testing.T) {
		f := setupTestFixture(t)
		f.identity.User = nil

		rec := f.do(t, http.MethodGet, callbackURL(sessionfakes.Token("ada@example.com", time.Now().Add(15*time.Minute))))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, session.LoggedOut, f.manager.State())
		require.Empty(t, f.store.Current())
	})

	t.Run("signature verification failure", func(t *testing.T) {
		f := setupTestFixture(t, server.WithVerifier(verifierFunc(func(context.Context, string) error {
			return errors.New("bad signature")
		})))

		rec := f.do(t, http.MethodGet, callbackURL(sessionfakes.Token("ada@example.com", time.Now().Add(15*time.Minute))))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Empty(t, f.identity.Tokens())
		require.Equal(t, session.LoggedOut, f.manager.State())
	})

	t.Run("method not allowed", func(t *testing.T) {
		f := setupTestFixture(t)

		rec := f.do(t, http.MethodDelete, server.RouteAuthCallback)

		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestSessionHandler(t *testing.T) {
	t.Run("logged out", func(t *testing.T) {
		f := setupTestFixture(t)

		rec := f.do(t, http.MethodGet, server.RouteSession)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "logged_out", body["state"])
		require.Equal(t, false, body["authenticated"])
		require.NotContains(t, body, "expires_at")
	})

	t.Run("logged in", func(t *testing.T) {
		f := setupTestFixture(t)
		f.manager.LoginWithToken(context.Background(), sessionfakes.Token("ada@example.com", time.Now().Add(15*time.Minute)))

		rec := f.do(t, http.MethodGet, server.RouteSession)

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			State         string     `json:"state"`
			Authenticated bool       `json:"authenticated"`
			Subject       string     `json:"subject"`
			Email         string     `json:"email"`
			Name          string     `json:"name"`
			Roles         []string   `json:"roles"`
			ExpiresAt     *time.Time `json:"expires_at"`
			RenewAt       *time.Time `json:"renew_at"`
			TimeRemaining string     `json:"time_remaining"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "logged_in", body.State)
		require.True(t, body.Authenticated)
		require.Equal(t, "ada@example.com", body.Subject)
		require.Equal(t, "ada@example.com", body.Email)
		require.Equal(t, "Ada Lovelace", body.Name)
		require.Equal(t, []string{"ADMIN"}, body.Roles)
		require.NotNil(t, body.ExpiresAt)
		require.NotNil(t, body.RenewAt)
		require.Equal(t, 20*time.Second, body.ExpiresAt.Sub(*body.RenewAt))
		require.Regexp(t, `^1[45]m \d+s$`, body.TimeRemaining)
	})
}

func TestRenewHandler(t *testing.T) {
	t.Run("no session", func(t *testing.T) {
		f := setupTestFixture(t)

		rec := f.do(t, http.MethodPost, server.RouteSessionRenew)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Empty(t, f.auth.RenewCalls())
	})

	t.Run("renewed", func(t *testing.T) {
		f := setupTestFixture(t)
		renewed := sessionfakes.Token("ada@example.com", time.Now().Add(30*time.Minute))
		f.auth.RenewFunc = func(context.Context, string) (string, error) { return renewed, nil }
		f.manager.LoginWithToken(context.Background(), sessionfakes.Token("ada@example.com", time.Now().Add(15*time.Minute)))

		rec := f.do(t, http.MethodPost, server.RouteSessionRenew)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "token_expires_at")
		require.Equal(t, renewed, f.manager.AccessToken())
	})

	t.Run("rejected renewal ends the session", func(t *testing.T) {
		f := setupTestFixture(t)
		f.auth.RenewFunc = func(context.Context, string) (string, error) {
			return "", &api.Error{StatusCode: http.StatusUnauthorized, Message: "refresh token expired"}
		}
		f.manager.LoginWithToken(context.Background(), sessionfakes.Token("ada@example.com", time.Now().Add(15*time.Minute)))

		rec := f.do(t, http.MethodPost, server.RouteSessionRenew)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "session expired")
		require.Equal(t, session.LoggedOut, f.manager.State())
	})
}

func TestLogoutHandler(t *testing.T) {
	f := setupTestFixture(t)
	f.auth.LogoutFunc = func(context.Context, string) error { return errors.New("backend down") }
	f.manager.LoginWithToken(context.Background(), sessionfakes.Token("ada@example.com", time.Now().Add(15*time.Minute)))

	rec := f.do(t, http.MethodPost, server.RouteSessionLogout)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, session.LoggedOut, f.manager.State())
	require.Len(t, f.auth.LogoutCalls(), 1)
}

func TestCrossSiteRequests(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		headers    map[string]string
		wantStatus int
		wantState  session.State
	}{
		{
			name:       "foreign origin cannot log out",
			target:     server.RouteSessionLogout,
			headers:    map[string]string{"Origin": "https://evil.example", "Content-Type": "application/x-www-form-urlencoded"},
			wantStatus: http.StatusForbidden,
			wantState:  session.LoggedIn,
		},
		{
			name:       "foreign origin cannot renew",
			target:     server.RouteSessionRenew,
			headers:    map[string]string{"Origin": "https://evil.example"},
			wantStatus: http.StatusForbidden,
			wantState:  session.LoggedIn,
		},
		{
			name:       "cross-site fetch without origin",
			target:     server.RouteSessionLogout,
			headers:    map[string]string{"Sec-Fetch-Site": "cross-site"},
			wantStatus: http.StatusForbidden,
			wantState:  session.LoggedIn,
		},
		{
			name:       "malformed origin",
			target:     server.RouteSessionLogout,
			headers:    map[string]string{"Origin": "null"},
			wantStatus: http.StatusForbidden,
			wantState:  session.LoggedIn,
		},
		{
			name:       "same origin",
			target:     server.RouteSessionLogout,
			headers:    map[string]string{"Origin": "http://example.com", "Sec-Fetch-Site": "same-origin"},
			wantStatus: http.StatusNoContent,
			wantState:  session.LoggedOut,
		},
		{
			name:       "configured frontend",
			target:     server.RouteSessionLogout,
			headers:    map[string]string{"Origin": "http://localhost:3000", "Sec-Fetch-Site": "cross-site"},
			wantStatus: http.StatusNoContent,
			wantState:  session.LoggedOut,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FRONTEND_URL", "http://localhost:3000/")
			f := setupTestFixture(t)
			f.manager.LoginWithToken(context.Background(), sessionfakes.Token("ada@example.com", time.Now().Add(15*time.Minute)))

			rec := f.doWithHeaders(t, http.MethodPost, tt.target, tt.headers)

			require.Equal(t, tt.wantStatus, rec.Code)
			require.Equal(t, tt.wantState, f.manager.State())
			if tt.wantStatus == http.StatusForbidden {
				require.Empty(t, f.auth.RenewCalls())
				require.Empty(t, f.auth.LogoutCalls())
			}
		})
	}
}

func TestProvidersHandler(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodGet, server.RouteProviders)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]api.Provider
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "GitHub", body["github"].Name)
}

func TestNotFound(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodGet, "/nope")

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "not_found")
}

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func mintToken(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return signed
}

func setupTestEnv(t *testing.T, handler http.Handler, token string) string {
	t.Helper()
	backend := httptest.NewServer(handler)
	t.Cleanup(backend.Close)

	dataFolder := t.TempDir()
	t.Setenv("ENV", "TEST")
	t.Setenv("LOG_LEVEL", "disabled")
	t.Setenv("API_URL", backend.URL)
	t.Setenv("DATA_FOLDER", dataFolder)
	t.Setenv("TOKEN_STORE", "file")
	t.Setenv("TOKEN_FILE", "")
	t.Setenv("CONSOLE_CONFIG", "")

	if token != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dataFolder, "access_token"), []byte(token), 0o600))
	}
	return dataFolder
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func meHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{
		"id":        12,
		"email":     "ada@example.com",
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"roles":     []map[string]any{{"name": "ADMIN", "rights": []string{"USER_READ"}}},
	})
}

func TestRunUsage(t *testing.T) {
	var out bytes.Buffer

	require.ErrorIs(t, run(nil, &out), errUsage)

	setupTestEnv(t, http.NotFoundHandler(), "")
	err := run([]string{"frobnicate"}, &out)
	require.ErrorIs(t, err, errUsage)
	require.Contains(t, err.Error(), "frobnicate")
}

func TestStatus(t *testing.T) {
	t.Run("logged out", func(t *testing.T) {
		setupTestEnv(t, http.NotFoundHandler(), "")
		var out bytes.Buffer

		require.NoError(t, run([]string{"status"}, &out))
		require.Contains(t, out.String(), "logged_out")
	})

	t.Run("restored session", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /v1/users/me", meHandler)
		token := mintToken(t, jwtlib.MapClaims{"sub": "ada@example.com", "exp": time.Now().Add(15 * time.Minute).Unix()})
		setupTestEnv(t, mux, token)
		var out bytes.Buffer

		require.NoError(t, run([]string{"status"}, &out))
		require.Contains(t, out.String(), "logged_in")
		require.Contains(t, out.String(), "Ada Lovelace <ada@example.com>")
		require.Contains(t, out.String(), "Roles:      ADMIN")
		require.Contains(t, out.String(), "Expires in: 1")
	})

	t.Run("revoked token is dropped", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /v1/users/me", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "token revoked", http.StatusUnauthorized)
		})
		token := mintToken(t, jwtlib.MapClaims{"exp": time.Now().Add(15 * time.Minute).Unix()})
		dataFolder := setupTestEnv(t, mux, token)
		var out bytes.Buffer

		require.NoError(t, run([]string{"status"}, &out))
		require.Contains(t, out.String(), "logged_out")
		_, err := os.Stat(filepath.Join(dataFolder, "access_token"))
		require.True(t, os.IsNotExist(err))
	})
}

func TestProviders(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/oauth-registrations", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"google": map[string]string{"name": "Google", "url": "http://localhost:8098/oauth2/authorization/google"},
			"github": map[string]string{"name": "GitHub", "url": "http://localhost:8098/oauth2/authorization/github"},
		})
	})
	setupTestEnv(t, mux, "")
	var out bytes.Buffer

	require.NoError(t, run([]string{"providers"}, &out))
	require.Regexp(t, `(?s)github\s+GitHub.*google\s+Google`, out.String())
}

func TestTokens(t *testing.T) {
	deleted := make(chan string, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/users/me", meHandler)
	mux.HandleFunc("GET /v1/users/me/token", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, []map[string]any{
			{"id": 101, "type": "REFRESH", "userAgent": "go-auth-console/1.0", "lastUsed": "2026-03-01T12:00:00"},
			{"id": 102, "type": "REFRESH", "userAgent": "Firefox", "lastUsed": "2026-02-27T08:00:00"},
		})
	})
	mux.HandleFunc("DELETE /v1/users/me/token/{id}", func(w http.ResponseWriter, r *http.Request) {
		deleted <- r.PathValue("id")
		w.WriteHeader(http.StatusNoContent)
	})
	token := mintToken(t, jwtlib.MapClaims{
		"sub":             "ada@example.com",
		"exp":             time.Now().Add(15 * time.Minute).Unix(),
		"parent_token_id": 101,
	})
	setupTestEnv(t, mux, token)

	t.Run("list marks the current session", func(t *testing.T) {
		var out bytes.Buffer

		require.NoError(t, run([]string{"tokens"}, &out))
		require.Contains(t, out.String(), Green+"*  101")
		require.Contains(t, out.String(), Gray+"   102")
	})

	t.Run("revoke", func(t *testing.T) {
		var out bytes.Buffer

		require.NoError(t, run([]string{"tokens", "-revoke", "102"}, &out))
		require.Equal(t, "102", <-deleted)
		require.Contains(t, out.String(), "Revoked 102")
	})
}

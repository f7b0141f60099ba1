package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// AuthCallbackHandler receives the token a third-party login redirects back
// with (?token=...). The token never appears in the redirect it answers with.
func (s *Server) AuthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if errorParam := r.FormValue("error"); errorParam != "" {
			http.Error(w, fmt.Sprintf("Authorization failed: %s - %s", errorParam, r.FormValue("error_description")), http.StatusBadRequest)
			return
		}

		token := strings.TrimSpace(r.FormValue("token"))
		if token == "" {
			http.Error(w, "Missing token parameter", http.StatusBadRequest)
			return
		}

		if s.verifier != nil {
			if err := s.verifier.Verify(r.Context(), token); err != nil {
				log.Warn().Err(err).Msg("callback token failed signature verification")
				http.Error(w, "Token signature verification failed", http.StatusUnauthorized)
				return
			}
		}

		s.session.LoginWithToken(r.Context(), token)

		snap := s.session.Snapshot()
		if !snap.IsAuthenticated() {
			http.Error(w, "Token was not accepted by the backend", http.StatusUnauthorized)
			return
		}
		log.Info().Str("email", snap.Identity.Email).Msg("signed in through third-party login")

		if frontend := s.config.GetFrontendURL(); frontend != "" {
			redirectSuccess(w, r, frontend)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "Signed in as %s. You can close this window.\n", displayName(snap))
	}
}

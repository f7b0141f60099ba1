package server

import (
	"net/http"
	"time"

	"github.com/jrsteele09/go-auth-console/api"
	apperrors "github.com/jrsteele09/go-auth-console/internal/errors"
	"github.com/jrsteele09/go-auth-console/internal/utils"
	"github.com/jrsteele09/go-auth-console/session"
	"github.com/jrsteele09/go-auth-console/token/jwt"
	"github.com/rs/zerolog/log"
)

type sessionResponse struct {
	State         string     `json:"state"`
	Authenticated bool       `json:"authenticated"`
	Subject       string     `json:"subject,omitempty"`
	Email         string     `json:"email,omitempty"`
	Name          string     `json:"name,omitempty"`
	Roles         []string   `json:"roles,omitempty"`
	Authorities   []string   `json:"authorities,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	RenewAt       *time.Time `json:"renew_at,omitempty"`
	TimeRemaining string     `json:"time_remaining,omitempty"`
	ParentTokenID string     `json:"parent_token_id,omitempty"`
}

func newSessionResponse(snap session.Snapshot) sessionResponse {
	resp := sessionResponse{
		State:         snap.State.String(),
		Authenticated: snap.IsAuthenticated(),
	}
	if snap.Identity != nil {
		resp.Email = snap.Identity.Email
		resp.Name = snap.Identity.FullName()
		resp.Roles = snap.Identity.RoleNames()
	}
	resp.RenewAt = utils.PtrUnlessZero(snap.RenewAt)

	decoded, ok := jwt.Decode(snap.AccessToken)
	if !ok {
		return resp
	}
	resp.Subject = decoded.Payload.Subject()
	resp.Authorities = decoded.Payload.Authorities()
	resp.ParentTokenID = decoded.Payload.ParentTokenID()
	if exp, ok := decoded.Payload.ExpiresAt(); ok {
		resp.ExpiresAt = utils.PtrUnlessZero(exp)
	}
	if remaining, ok := decoded.Payload.TimeRemaining(); ok {
		resp.TimeRemaining = jwt.FormatRemaining(remaining)
	}
	return resp
}

func displayName(snap session.Snapshot) string {
	if snap.Identity == nil {
		return "unknown user"
	}
	if name := snap.Identity.FullName(); name != "" {
		return name
	}
	return snap.Identity.Email
}

func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, newSessionResponse(s.session.Snapshot()))
	}
}

func (s *Server) RenewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := s.session.Renew(r.Context())
		switch {
		case err == nil:
		case apperrors.Is(err, apperrors.ErrNoSession):
			writeJSONError(w, "unauthorized", "no active session", http.StatusUnauthorized)
			return
		case apperrors.Is(err, apperrors.ErrSessionSuperseded):
			writeJSONError(w, "conflict", "session changed while renewing", http.StatusConflict)
			return
		default:
			log.Warn().Err(err).Msg("renewal requested through the listener failed")
			writeJSONError(w, "unauthorized", "session expired", http.StatusUnauthorized)
			return
		}

		resp := map[string]any{"renewed": true}
		if exp, ok := jwt.ExpiresAt(token); ok {
			resp["token_expires_at"] = exp
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// LogoutHandler always succeeds; the session is cleared locally even when the
// backend cannot be reached.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.session.Logout(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) ProvidersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		providers := map[string]api.Provider{}
		if s.providers != nil {
			if listed := s.providers.OAuthProviders(r.Context()); listed != nil {
				providers = listed
			}
		}
		writeJSON(w, http.StatusOK, providers)
	}
}

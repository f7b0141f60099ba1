package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

func (s *Server) initRoutes() {
	// Third-party login redirect
	s.RegisterRouteFunc(http.MethodGet, RouteAuthCallback, ChainMiddleware(s.AuthCallbackHandler(), s.HTMLMiddleWare()...))

	// Session
	s.RegisterRouteFunc(http.MethodGet, RouteSession, ChainMiddleware(s.SessionHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc(http.MethodPost, RouteSessionRenew, ChainMiddleware(s.RenewHandler(), s.APIMiddleware(s.SameOriginMiddleware)...))
	s.RegisterRouteFunc(http.MethodPost, RouteSessionLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware(s.SameOriginMiddleware)...))

	s.RegisterRouteFunc(http.MethodGet, RouteProviders, ChainMiddleware(s.ProvidersHandler(), s.APIMiddleware()...))

	s.router.NotFoundHandler = ChainMiddleware(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, "not_found", "404 - Page Not Found", http.StatusNotFound)
	}, s.LoggingMiddleware)
}

func logError(method, path, error string) {
	log.Error().Msgf("[%-19s] %s %s", colouredMethod(method), path, Red+error+ResetColor)
}

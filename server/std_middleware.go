package server

import (
	"fmt"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"

	"github.com/rs/zerolog/log"
)

func ChainMiddleware(routeFunction http.HandlerFunc, mw ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	chainedHandler := routeFunction
	// Apply middleware in reverse order
	for i := len(mw) - 1; i >= 0; i-- {
		chainedHandler = mw[i](chainedHandler)
	}
	return chainedHandler
}

func (s *Server) HTMLMiddleWare(mw ...func(http.HandlerFunc) http.HandlerFunc) []func(http.HandlerFunc) http.HandlerFunc {
	chainedMiddleWare := []func(http.HandlerFunc) http.HandlerFunc{
		s.LoggingMiddleware,
		s.RecoverMiddleware,
		s.FrameSecurityMiddleware,
		s.NoStoreMiddleware,
	}
	return append(chainedMiddleWare, mw...)
}

func (s *Server) APIMiddleware(mw ...func(http.HandlerFunc) http.HandlerFunc) []func(http.HandlerFunc) http.HandlerFunc {
	chainedMiddleWare := []func(http.HandlerFunc) http.HandlerFunc{
		s.LoggingMiddleware,
		s.RecoverMiddleware,
		s.NoStoreMiddleware,
	}
	return append(chainedMiddleWare, mw...)
}

func (s *Server) LoggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.env != "DEV" {
			next(w, r)
			return
		}
		logRoute(r.Method, r.URL.Path)
		next(w, r)
	}
}

func (s *Server) FrameSecurityMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Prevent embedding on other sites
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'self'")
		next(w, r)
	}
}

// NoStoreMiddleware keeps responses that may carry tokens out of caches.
func (s *Server) NoStoreMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next(w, r)
	}
}

// SameOriginMiddleware rejects state-changing requests sent by other sites.
// Requests without an Origin header come from the CLI or curl and pass.
func (s *Server) SameOriginMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			if !s.isAllowedOrigin(origin, r.Host) {
				logError(r.Method, r.URL.Path, "rejected origin "+origin)
				writeJSONError(w, "forbidden", "cross-site request rejected", http.StatusForbidden)
				return
			}
			next(w, r)
			return
		}

		if r.Header.Get("Sec-Fetch-Site") == "cross-site" {
			logError(r.Method, r.URL.Path, "rejected cross-site request")
			writeJSONError(w, "forbidden", "cross-site request rejected", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

// isAllowedOrigin accepts the listener itself and the configured frontend.
func (s *Server) isAllowedOrigin(origin, host string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	if strings.EqualFold(u.Host, host) {
		return true
	}
	frontend, err := url.Parse(s.config.GetFrontendURL())
	if err != nil || frontend.Host == "" {
		return false
	}
	return strings.EqualFold(u.Scheme, frontend.Scheme) && strings.EqualFold(u.Host, frontend.Host)
}

func (s *Server) RecoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logError(r.Method, r.URL.Path, fmt.Sprintf("panic: %v", rec))
				log.Debug().Msg(string(debug.Stack()))
				writeJSONError(w, "server_error", "internal server error", http.StatusInternalServerError)
			}
		}()
		next(w, r)
	}
}

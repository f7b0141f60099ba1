package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/jrsteele09/go-auth-console/api"
	"github.com/jrsteele09/go-auth-console/internal/config"
	"github.com/jrsteele09/go-auth-console/session"
	"github.com/rs/zerolog/log"
)

// SessionController is the part of session.Manager the listener drives.
type SessionController interface {
	LoginWithToken(ctx context.Context, token string)
	Renew(ctx context.Context) (string, error)
	Logout(ctx context.Context)
	Snapshot() session.Snapshot
}

// TokenVerifier checks a token delivered to the callback before it is
// installed.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) error
}

type ProviderLister interface {
	OAuthProviders(ctx context.Context) map[string]api.Provider
}

var _ SessionController = (*session.Manager)(nil)

type Server struct {
	env       string // Environment (e.g., "DEV", "PROD")
	router    *mux.Router
	routes    []string
	config    config.Config
	session   SessionController
	providers ProviderLister
	verifier  TokenVerifier
}

type Option func(*Server)

// WithVerifier enables signature checks on callback tokens.
func WithVerifier(verifier TokenVerifier) Option {
	return func(s *Server) {
		s.verifier = verifier
	}
}

func New(config config.Config, sessions SessionController, providers ProviderLister, opts ...Option) *Server {
	s := &Server{
		env:       config.GetEnv(),
		router:    mux.NewRouter(),
		config:    config,
		session:   sessions,
		providers: providers,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.initRoutes()
	s.logRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(method, path string, handler http.HandlerFunc) {
	s.routes = append(s.routes, method+" "+path)
	s.router.HandleFunc(path, handler).Methods(method)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		logRoute(parts[0], parts[1])
	}
}

func logRoute(method, path string) {
	log.Debug().Msgf("[%-19s] %s", colouredMethod(method), path)
}

func padMethod(method string) string {
	return fmt.Sprintf(" %-7s", method)
}

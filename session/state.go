package session

import (
	"time"

	"github.com/jrsteele09/go-auth-console/users"
)

// State is the coarse authentication state of a session.
type State int

const (
	// LoggedOut means no access token is held.
	LoggedOut State = iota
	// TokenPending means a token is held but its identity is not resolved yet.
	// Callers should treat the session as not yet authenticated.
	TokenPending
	// LoggedIn means a token is held and its identity is resolved.
	LoggedIn
)

func (s State) String() string {
	switch s {
	case LoggedOut:
		return "logged_out"
	case TokenPending:
		return "token_pending"
	case LoggedIn:
		return "logged_in"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent, read-only view of a session at one instant.
type Snapshot struct {
	State       State
	AccessToken string
	Identity    *users.User
	ExpiresAt   time.Time // zero when the token carries no exp claim
	RenewAt     time.Time // zero when no renewal timer is armed
}

func (s Snapshot) IsAuthenticated() bool {
	return s.State == LoggedIn
}

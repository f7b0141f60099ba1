package sessionfakes

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-auth-console/session"
)

var _ session.AuthService = (*Auth)(nil)

// Auth is a scriptable session.AuthService. Unset funcs succeed with empty
// results.
type Auth struct {
	IssueTokenFunc func(ctx context.Context, username, password string) (string, error)
	RenewFunc      func(ctx context.Context, currentToken string) (string, error)
	LogoutFunc     func(ctx context.Context, accessToken string) error

	lock        sync.Mutex
	issueCalls  int
	renewCalls  []string
	logoutCalls []string
}

func (a *Auth) IssueToken(ctx context.Context, username, password string) (string, error) {
	a.lock.Lock()
	a.issueCalls++
	fn := a.IssueTokenFunc
	a.lock.Unlock()

	if fn == nil {
		return "", nil
	}
	return fn(ctx, username, password)
}

func (a *Auth) Renew(ctx context.Context, currentToken string) (string, error) {
	a.lock.Lock()
	a.renewCalls = append(a.renewCalls, currentToken)
	fn := a.RenewFunc
	a.lock.Unlock()

	if fn == nil {
		return "", nil
	}
	return fn(ctx, currentToken)
}

func (a *Auth) Logout(ctx context.Context, accessToken string) error {
	a.lock.Lock()
	a.logoutCalls = append(a.logoutCalls, accessToken)
	fn := a.LogoutFunc
	a.lock.Unlock()

	if fn == nil {
		return nil
	}
	return fn(ctx, accessToken)
}

func (a *Auth) IssueCalls() int {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.issueCalls
}

// RenewCalls returns the token passed to each Renew call.
func (a *Auth) RenewCalls() []string {
	a.lock.Lock()
	defer a.lock.Unlock()
	return append([]string(nil), a.renewCalls...)
}

func (a *Auth) LogoutCalls() []string {
	a.lock.Lock()
	defer a.lock.Unlock()
	return append([]string(nil), a.logoutCalls...)
}

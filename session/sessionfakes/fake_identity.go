package sessionfakes

import (
	"context"
	"errors"
	"sync"

	"github.com/jrsteele09/go-auth-console/session"
	"github.com/jrsteele09/go-auth-console/users"
)

var _ session.IdentityService = (*Identity)(nil)

// Identity is a scriptable session.IdentityService. Without MeFunc it returns
// User for every token, or an error when User is nil.
type Identity struct {
	MeFunc func(ctx context.Context, accessToken string) (*users.User, error)
	User   *users.User

	lock   sync.Mutex
	tokens []string
}

func (i *Identity) Me(ctx context.Context, accessToken string) (*users.User, error) {
	i.lock.Lock()
	i.tokens = append(i.tokens, accessToken)
	fn, user := i.MeFunc, i.User
	i.lock.Unlock()

	if fn != nil {
		return fn(ctx, accessToken)
	}
	if user == nil {
		return nil, errors.New("no user configured")
	}
	return user, nil
}

// Tokens returns the access token passed to each Me call.
func (i *Identity) Tokens() []string {
	i.lock.Lock()
	defer i.lock.Unlock()
	return append([]string(nil), i.tokens...)
}

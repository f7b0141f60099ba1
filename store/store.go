package store

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-auth-console/internal/config"
	"github.com/jrsteele09/go-auth-console/store/filestore"
	"github.com/jrsteele09/go-auth-console/store/redisstore"
	"github.com/jrsteele09/go-auth-console/store/sqlitestore"
	"github.com/jrsteele09/go-auth-console/store/storefake"
)

// Store persists the raw access token across restarts. Absence of a token
// means logged out. Get returns apperrors.ErrNotFound when nothing is stored.
type Store interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Remove(ctx context.Context) error
}

var (
	_ Store = (*filestore.Store)(nil)
	_ Store = (*sqlitestore.Store)(nil)
	_ Store = (*redisstore.Store)(nil)
	_ Store = (*storefake.Store)(nil)
)

// Open creates the Store selected by cfg. The returned close func releases
// any connection the backend holds.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, func() error, error) {
	switch cfg.GetTokenStore() {
	case config.StoreFile, "":
		return filestore.New(cfg.GetTokenFile()), func() error { return nil }, nil
	case config.StoreSQLite:
		s, err := sqlitestore.Open(cfg.GetSQLitePath(), cfg.GetTokenKey())
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.StoreRedis:
		s, err := redisstore.Open(ctx, redisstore.Options{
			Addr:     cfg.GetRedisURL(),
			Password: cfg.GetRedisPassword(),
			Key:      cfg.GetTokenKey(),
		})
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown token store %q", cfg.GetTokenStore())
	}
}

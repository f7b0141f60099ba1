package config

import "path/filepath"

const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

type StoreConfig interface {
	GetTokenStore() string
	GetTokenKey() string
	GetTokenFile() string
	GetSQLitePath() string
	GetRedisURL() string
	GetRedisPassword() string
}

type Store struct {
	src *source
}

var _ StoreConfig = Store{}

func (s Store) GetTokenStore() string {
	return s.src.get("TOKEN_STORE", StoreFile)
}

// GetTokenKey is the key the access token is stored under.
func (s Store) GetTokenKey() string {
	return s.src.get("TOKEN_KEY", "accessToken")
}

func (s Store) GetTokenFile() string {
	return s.src.get("TOKEN_FILE", filepath.Join(s.dataFolder(), "access_token"))
}

func (s Store) GetSQLitePath() string {
	return s.src.get("SQLITE_PATH", filepath.Join(s.dataFolder(), "console.db"))
}

func (s Store) GetRedisURL() string {
	return s.src.get("REDIS_URL", "localhost:6379")
}

func (s Store) GetRedisPassword() string {
	return s.src.get("REDIS_PASSWORD", "")
}

func (s Store) dataFolder() string {
	return EnvVars{src: s.src}.GetDataFolder()
}

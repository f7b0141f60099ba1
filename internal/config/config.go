package config

import (
	"fmt"
	"time"
)

type Config interface {
	EnvConfig
	APIConfig
	SessionConfig
	StoreConfig
	ServerConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetDataFolder() string
}

type APIConfig interface {
	GetAPIBaseURL() string
	GetFrontendURL() string
	GetRequestTimeout() time.Duration
	GetUserAgent() string
}

type mainConfig struct {
	EnvVars
	API
	Session
	Store
	Server
}

// New returns a Config backed by environment variables only.
func New() Config {
	return newMainConfig(&source{})
}

// Load returns a Config backed by environment variables, falling back to the
// values in the TOML file at path. An empty path behaves like New.
func Load(path string) (Config, error) {
	src := &source{}
	if path != "" {
		if err := src.loadFile(path); err != nil {
			return nil, fmt.Errorf("config.Load %s: %w", path, err)
		}
	}
	return newMainConfig(src), nil
}

func newMainConfig(src *source) mainConfig {
	return mainConfig{
		EnvVars: EnvVars{src: src},
		API:     API{src: src},
		Session: Session{src: src},
		Store:   Store{src: src},
		Server:  Server{src: src},
	}
}

package config

import (
	"strings"
	"time"
)

const (
	appNameVar   = "APP_NAME"
	envVar       = "ENV"
	logLevelVar  = "LOG_LEVEL"
	folderEnvVar = "DATA_FOLDER"

	apiURLVar         = "API_URL"
	frontendURLVar    = "FRONTEND_URL"
	requestTimeoutVar = "REQUEST_TIMEOUT"
	userAgentVar      = "USER_AGENT"
)

type EnvVars struct {
	src *source
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetAppName() string {
	return e.src.get(appNameVar, "Auth Console")
}

func (e EnvVars) GetEnv() string {
	return strings.ToUpper(e.src.get(envVar, "DEV"))
}

func (e EnvVars) GetLogLevel() string {
	return strings.ToLower(e.src.get(logLevelVar, "info"))
}

func (e EnvVars) GetDataFolder() string {
	return e.src.get(folderEnvVar, "./data")
}

type API struct {
	src *source
}

var _ APIConfig = API{}

// GetAPIBaseURL returns the backend base URL without a trailing slash.
func (a API) GetAPIBaseURL() string {
	return strings.TrimRight(a.src.get(apiURLVar, "http://localhost:8098"), "/")
}

// GetFrontendURL is where the callback listener sends the browser after a
// third-party login. Empty means render a confirmation page instead.
func (a API) GetFrontendURL() string {
	return a.src.get(frontendURLVar, "")
}

func (a API) GetRequestTimeout() time.Duration {
	return a.src.duration(requestTimeoutVar, 15*time.Second)
}

func (a API) GetUserAgent() string {
	return a.src.get(userAgentVar, "go-auth-console/1.0")
}

package sessionfakes

import (
	"time"

	"github.com/jrsteele09/go-auth-console/internal/config"
)

var _ config.SessionConfig = SessionConfig{}

// SessionConfig is a fixed config.SessionConfig.
type SessionConfig struct {
	RenewalLead              time.Duration
	ImmediateRenewalInterval time.Duration
	ImmediateRenewalBurst    int
	JWKSURL                  string
}

// DefaultSessionConfig mirrors the production defaults.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		RenewalLead:              20 * time.Second,
		ImmediateRenewalInterval: 5 * time.Second,
		ImmediateRenewalBurst:    3,
	}
}

func (c SessionConfig) GetRenewalLead() time.Duration              { return c.RenewalLead }
func (c SessionConfig) GetImmediateRenewalInterval() time.Duration { return c.ImmediateRenewalInterval }
func (c SessionConfig) GetImmediateRenewalBurst() int              { return c.ImmediateRenewalBurst }
func (c SessionConfig) GetJWKSURL() string                         { return c.JWKSURL }

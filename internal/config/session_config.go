package config

import "time"

type SessionConfig interface {
	GetRenewalLead() time.Duration
	GetImmediateRenewalInterval() time.Duration
	GetImmediateRenewalBurst() int
	GetJWKSURL() string
}

type Session struct {
	src *source
}

var _ SessionConfig = Session{}

// GetRenewalLead is how long before the access token expires a renewal is attempted.
func (s Session) GetRenewalLead() time.Duration {
	return s.src.duration("RENEWAL_LEAD", 20*time.Second)
}

// GetImmediateRenewalInterval limits how often overdue tokens are renewed back to back.
func (s Session) GetImmediateRenewalInterval() time.Duration {
	return s.src.duration("IMMEDIATE_RENEWAL_INTERVAL", 5*time.Second)
}

func (s Session) GetImmediateRenewalBurst() int {
	burst := s.src.int("IMMEDIATE_RENEWAL_BURST", 3)
	if burst < 1 {
		return 1
	}
	return burst
}

// GetJWKSURL enables signature checks on tokens delivered to the callback listener.
func (s Session) GetJWKSURL() string {
	return s.src.get("JWKS_URL", "")
}

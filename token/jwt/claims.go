package jwt

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-auth-console/internal/utils"
)

// Claims wraps the decoded payload with typed accessors for the claims the
// console cares about.
type Claims struct {
	jwtlib.MapClaims
}

// ExpiresAt returns the "exp" claim. The second value is false when the claim
// is absent or not numeric.
func (c Claims) ExpiresAt() (time.Time, bool) {
	exp, err := c.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time.UTC(), true
}

func (c Claims) IssuedAt() (time.Time, bool) {
	iat, err := c.GetIssuedAt()
	if err != nil || iat == nil {
		return time.Time{}, false
	}
	return iat.Time.UTC(), true
}

func (c Claims) Subject() string {
	sub, _ := c.GetSubject()
	return sub
}

// Authorities returns the string entries of the "authorities" claim.
func (c Claims) Authorities() []string {
	raw, _ := c.MapClaims["authorities"].([]any)
	return utils.Strings(raw)
}

// ParentTokenID identifies the refresh token this access token was minted from.
func (c Claims) ParentTokenID() string {
	switch v := c.MapClaims["parent_token_id"].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprint(v)
	}
}

// TimeRemaining is the time left until exp, clamped at zero. The second value
// is false when the claims carry no expiry.
func (c Claims) TimeRemaining() (time.Duration, bool) {
	exp, ok := c.ExpiresAt()
	if !ok {
		return 0, false
	}
	remaining := exp.Sub(NowTimeFunc())
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

// FormatRemaining renders a remaining lifetime as "14m 32s", or "expired".
func FormatRemaining(d time.Duration) string {
	if d <= 0 {
		return "expired"
	}
	d = d.Truncate(time.Second)
	minutes := int(d / time.Minute)
	seconds := int((d % time.Minute) / time.Second)
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}

package jwt

import (
	"bytes"
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Decoded is the unverified content of a JSON Web Token.
// Signature is kept as the raw third segment; it is never checked here.
type Decoded struct {
	Header    map[string]any
	Payload   Claims
	Signature string
}

// Decode splits a token into its three segments and base64url/JSON decodes the
// header and payload. It reports false for anything that is not a
// three-segment token with JSON object header and payload.
func Decode(rawToken string) (*Decoded, bool) {
	parser := jwtlib.NewParser()
	token, parts, err := parser.ParseUnverified(rawToken, jwtlib.MapClaims{})
	// An unknown or missing "alg" only makes the token unverifiable; its
	// segments were still decoded.
	if err != nil && !errors.Is(err, jwtlib.ErrTokenUnverifiable) {
		return nil, false
	}
	if token == nil || token.Header == nil || len(parts) != 3 {
		return nil, false
	}

	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok || claims == nil || !isJSONObject(parser, parts[1]) {
		return nil, false
	}

	return &Decoded{
		Header:    token.Header,
		Payload:   Claims{claims},
		Signature: parts[2],
	}, true
}

// isJSONObject reports whether seg decodes to a JSON object. MapClaims
// decoding leaves the claims untouched for a null payload.
func isJSONObject(parser *jwtlib.Parser, seg string) bool {
	raw, err := parser.DecodeSegment(seg)
	if err != nil {
		return false
	}
	return bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{"))
}

// ExpiresAt is a convenience wrapper for Decode followed by Claims.ExpiresAt.
func ExpiresAt(rawToken string) (time.Time, bool) {
	decoded, ok := Decode(rawToken)
	if !ok {
		return time.Time{}, false
	}
	return decoded.Payload.ExpiresAt()
}

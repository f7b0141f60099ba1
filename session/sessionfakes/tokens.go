package sessionfakes

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var signingKey = []byte("sessionfakes-signing-key")

// Token returns an HS256 JWT for subject expiring at exp. Each call yields a
// distinct token.
func Token(subject string, exp time.Time) string {
	return sign(jwtlib.MapClaims{
		"sub": subject,
		"exp": exp.Unix(),
		"iat": exp.Add(-15 * time.Minute).Unix(),
		"jti": uuid.NewString(),
	})
}

// TokenWithoutExpiry returns a JWT with no exp claim.
func TokenWithoutExpiry(subject string) string {
	return sign(jwtlib.MapClaims{
		"sub": subject,
		"jti": uuid.NewString(),
	})
}

func sign(claims jwtlib.MapClaims) string {
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		panic(err)
	}
	return signed
}

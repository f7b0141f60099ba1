package jwt_test

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/coreos/go-oidc/v3/oidc"
	jwtlib "github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-auth-console/internal/errors"
	"github.com/jrsteele09/go-auth-console/token/jwt"
	"github.com/stretchr/testify/require"
)

func TestKeySetVerifier(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	verifier := jwt.NewKeySetVerifierFromKeySet(&oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&key.PublicKey}})

	good, err := jwtlib.NewWithClaims(jwtlib.SigningMethodRS256, jwtlib.MapClaims{"sub": "u1"}).SignedString(key)
	require.NoError(t, err)
	require.NoError(t, verifier.Verify(context.Background(), good))

	forged, err := jwtlib.NewWithClaims(jwtlib.SigningMethodRS256, jwtlib.MapClaims{"sub": "u1"}).SignedString(other)
	require.NoError(t, err)
	err = verifier.Verify(context.Background(), forged)
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrInvalidToken))

	require.Error(t, verifier.Verify(context.Background(), "not-a-jwt"))
}

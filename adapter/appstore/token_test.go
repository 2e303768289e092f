package appstore

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPrivateKeyPEM(t *testing.T) (*ecdsa.PrivateKey, []byte) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	return key, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
}

func TestNewTokenProviderValidatesInputs(t *testing.T) {
	_, pemBytes := testPrivateKeyPEM(t)

	_, err := NewTokenProvider("", "issuer-1", pemBytes)
	require.Error(t, err)

	_, err = NewTokenProvider("key-1", "", pemBytes)
	require.Error(t, err)

	_, err = NewTokenProvider("key-1", "issuer-1", []byte("not a key"))
	require.Error(t, err)
}

func TestParsePrivateKeySEC1(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der})

	parsed, err := ParsePrivateKey(pemBytes)
	require.NoError(t, err)
	assert.True(t, key.Equal(parsed))
}

func TestTokenMintsVerifiableES256Token(t *testing.T) {
	key, pemBytes := testPrivateKeyPEM(t)
	provider, err := NewTokenProvider("key-1", "issuer-1", pemBytes)
	require.NoError(t, err)

	signed, err := provider.Token()
	require.NoError(t, err)

	parsed, err := jwt.Parse(signed, func(token *jwt.Token) (any, error) {
		require.IsType(t, &jwt.SigningMethodECDSA{}, token.Method)
		return &key.PublicKey, nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	assert.Equal(t, "key-1", parsed.Header["kid"])
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "issuer-1", claims["iss"])
	assert.Equal(t, tokenAudience, claims["aud"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	iat, err := claims.GetIssuedAt()
	require.NoError(t, err)
	assert.Equal(t, defaultTokenTTL, exp.Sub(iat.Time))
}

func TestTokenCachesUntilRefreshMargin(t *testing.T) {
	_, pemBytes := testPrivateKeyPEM(t)
	provider, err := NewTokenProvider("key-1", "issuer-1", pemBytes)
	require.NoError(t, err)

	current := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	provider.now = func() time.Time { return current }

	first, err := provider.Token()
	require.NoError(t, err)

	// Well before expiry the cached token is reused.
	current = current.Add(10 * time.Minute)
	second, err := provider.Token()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Inside the refresh margin a fresh token is minted.
	current = current.Add(defaultTokenTTL)
	third, err := provider.Token()
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

// Package appstore implements the backend gateway against the App Store
// Connect API: bearer-token minting, a retrying transport and the JSON:API
// wire shapes. All decision logic lives above it; this layer only moves data.
package appstore

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenAudience      = "appstoreconnect-v1"
	defaultTokenTTL    = 20 * time.Minute
	tokenRefreshMargin = time.Minute
)

// TokenProvider mints and caches short-lived ES256 bearer tokens for the
// App Store Connect API. Safe for concurrent use.
type TokenProvider struct {
	keyID    string
	issuerID string
	key      *ecdsa.PrivateKey
	ttl      time.Duration
	now      func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewTokenProvider creates a TokenProvider from an API key ID, an issuer ID
// and a PEM-encoded private key.
func NewTokenProvider(keyID, issuerID string, privateKeyPEM []byte) (*TokenProvider, error) {
	if keyID == "" {
		return nil, fmt.Errorf("api key id must not be empty")
	}
	if issuerID == "" {
		return nil, fmt.Errorf("issuer id must not be empty")
	}
	key, err := ParsePrivateKey(privateKeyPEM)
	if err != nil {
		return nil, err
	}
	return &TokenProvider{
		keyID:    keyID,
		issuerID: issuerID,
		key:      key,
		ttl:      defaultTokenTTL,
		now:      time.Now,
	}, nil
}

// ParsePrivateKey decodes a PEM-encoded EC private key in PKCS#8 or SEC 1
// form, the two formats App Store Connect keys are distributed in.
func ParsePrivateKey(pemBytes []byte) (*ecdsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("private key is not PEM-encoded")
	}

	if key, err := x509.ParseECPrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	key, ok := parsed.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is %T, expected an EC key", parsed)
	}
	return key, nil
}

// Token returns a bearer token, minting a fresh one when the cached token is
// within the refresh margin of expiry.
func (p *TokenProvider) Token() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if p.token != "" && now.Before(p.expiresAt.Add(-tokenRefreshMargin)) {
		return p.token, nil
	}

	expiresAt := now.Add(p.ttl)
	claims := jwt.MapClaims{
		"iss": p.issuerID,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
		"aud": tokenAudience,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	token.Header["kid"] = p.keyID

	signed, err := token.SignedString(p.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	p.token = signed
	p.expiresAt = expiresAt
	return signed, nil
}

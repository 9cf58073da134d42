package webpush

import (
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// NewClientKeys returns a browser-side key pair (p256dh, auth) for tests and
// local smoke checks against a fake push service.
func NewClientKeys() (p256dh, auth string, err error) {
	key, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		return "", "", fmt.Errorf("generate p256dh: %w", err)
	}

	secret := make([]byte, 16)
	if _, err := rand.Read(secret); err != nil {
		return "", "", fmt.Errorf("generate auth secret: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(key.PublicKey().Bytes()),
		base64.RawURLEncoding.EncodeToString(secret), nil
}

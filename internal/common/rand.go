package common

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateRandByteArray returns size cryptographically random bytes.
func GenerateRandByteArray(size int) ([]byte, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// MakeURLSafeToken encodes size random bytes as unpadded base64url.
// size=24 yields a 32-character token carrying 192 bits of entropy.
// Uniqueness relies on that entropy alone; there is no collision check.
func MakeURLSafeToken(size int) (string, error) {
	b, err := GenerateRandByteArray(size)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

package auth

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// minKeyBytes is the smallest acceptable decoded key for HS256.
const minKeyBytes = 32

// KeyProvider holds the process-wide HMAC signing key. The key is decoded
// once at construction and never changes.
type KeyProvider struct {
	key []byte
}

// NewKeyProvider decodes the base64 secret and validates its length.
func NewKeyProvider(secret string) (*KeyProvider, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, &KeyConfigError{Reason: "secret is missing or empty"}
	}

	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, &KeyConfigError{Reason: "secret is not valid base64"}
	}
	if len(key) < minKeyBytes {
		return nil, &KeyConfigError{
			Reason: fmt.Sprintf("decoded secret is %d bytes, need at least %d", len(key), minKeyBytes),
		}
	}

	return &KeyProvider{key: key}, nil
}

// Key returns the signing key. Callers must not mutate it.
func (p *KeyProvider) Key() []byte {
	return p.key
}

// Package secrets encrypts values at rest with Fernet symmetric tokens.
// Broker credentials stored in the settings table go through this box so a
// copied database file does not leak them.
package secrets

import (
	"fmt"

	"github.com/fernet/fernet-go"
)

// Box encrypts and decrypts short secret strings with a single Fernet key.
type Box struct {
	key *fernet.Key
}

// NewBox parses a base64url-encoded 32-byte Fernet key.
func NewBox(encodedKey string) (*Box, error) {
	key, err := fernet.DecodeKey(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode secret key: %w", err)
	}
	return &Box{key: key}, nil
}

// GenerateKey returns a fresh encoded key suitable for NewBox. Used by
// first-run setup when no key is configured.
func GenerateKey() (string, error) {
	var key fernet.Key
	if err := key.Generate(); err != nil {
		return "", fmt.Errorf("failed to generate secret key: %w", err)
	}
	return key.Encode(), nil
}

// Encrypt seals a plaintext value into a Fernet token.
func (b *Box) Encrypt(plaintext string) (string, error) {
	token, err := fernet.EncryptAndSign([]byte(plaintext), b.key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt secret: %w", err)
	}
	return string(token), nil
}

// Decrypt opens a Fernet token. Tokens do not expire; a tampered or
// foreign-key token returns an error.
func (b *Box) Decrypt(token string) (string, error) {
	plaintext := fernet.VerifyAndDecrypt([]byte(token), 0, []*fernet.Key{b.key})
	if plaintext == nil {
		return "", fmt.Errorf("failed to decrypt secret: invalid token")
	}
	return string(plaintext), nil
}

package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// CredentialsCipher seals integration credentials with XChaCha20-Poly1305.
// The stored value is nonce || ciphertext.
type CredentialsCipher struct {
	key [chacha20poly1305.KeySize]byte
}

// NewCredentialsCipher derives a 256-bit key from secret.
func NewCredentialsCipher(secret string) (*CredentialsCipher, error) {
	if secret == "" {
		return nil, errors.New("credentials key is required")
	}
	return &CredentialsCipher{key: sha256.Sum256([]byte(secret))}, nil
}

func (c *CredentialsCipher) Seal(creds map[string]string) ([]byte, error) {
	plain, err := json.Marshal(creds)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(c.key[:])
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plain)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, plain, nil), nil
}

func (c *CredentialsCipher) Open(sealed []byte) (map[string]string, error) {
	aead, err := chacha20poly1305.NewX(c.key[:])
	if err != nil {
		return nil, err
	}
	if len(sealed) < aead.NonceSize()+aead.Overhead() {
		return nil, errors.New("sealed credentials too short")
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt credentials: %w", err)
	}
	creds := map[string]string{}
	if err := json.Unmarshal(plain, &creds); err != nil {
		return nil, err
	}
	return creds, nil
}

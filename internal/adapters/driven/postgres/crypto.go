package postgres

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

const (
	// tokenVersion is the version byte prefixed to every sealed token.
	// The envelope makes ciphertext self-describing, replacing the old
	// "long string is probably encrypted" guess.
	tokenVersion = 0x01

	// nonceSize is the AES-GCM nonce size (12 bytes is standard)
	nonceSize = 12

	// keySize is the required key size for AES-256
	keySize = 32
)

var (
	// ErrEmptyCipherKey is returned when no encryption secret is configured.
	ErrEmptyCipherKey = errors.New("encryption key is empty")

	// ErrNotEnvelope is returned when a value lacks the sealed-token envelope.
	ErrNotEnvelope = errors.New("value is not a sealed token")

	// ErrDecryptionFailed is returned when decryption fails (wrong key or corrupted data).
	ErrDecryptionFailed = errors.New("failed to decrypt token")
)

// TokenCipher seals OAuth tokens at rest with AES-256-GCM.
// The sealed format is: base64(version(1) || nonce(12) || ciphertext).
type TokenCipher struct {
	gcm cipher.AEAD
}

// NewTokenCipher derives a 256-bit key from the first 32 bytes of the
// UTF-8-encoded secret, right-padded with zero bytes when shorter.
func NewTokenCipher(secret string) (*TokenCipher, error) {
	if secret == "" {
		return nil, ErrEmptyCipherKey
	}

	key := make([]byte, keySize)
	copy(key, secret)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create AES cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	return &TokenCipher{gcm: gcm}, nil
}

// Encrypt seals a plaintext token with a fresh random nonce per call.
func (c *TokenCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext := c.gcm.Seal(nil, nonce, []byte(plaintext), nil)

	blob := make([]byte, 1+nonceSize+len(ciphertext))
	blob[0] = tokenVersion
	copy(blob[1:1+nonceSize], nonce)
	copy(blob[1+nonceSize:], ciphertext)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt opens a sealed token. It errors on authentication failure or
// malformed input; it never silently returns partial plaintext.
func (c *TokenCipher) Decrypt(sealed string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", ErrNotEnvelope
	}

	minSize := 1 + nonceSize + c.gcm.Overhead()
	if len(blob) < minSize || blob[0] != tokenVersion {
		return "", ErrNotEnvelope
	}

	nonce := blob[1 : 1+nonceSize]
	ciphertext := blob[1+nonceSize:]

	plaintext, err := c.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	return string(plaintext), nil
}

// IsEnvelope reports whether a stored value carries the sealed-token
// envelope. Values written before encryption was configured are plaintext
// and read back as-is.
func (c *TokenCipher) IsEnvelope(value string) bool {
	if value == "" {
		return false
	}
	blob, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return false
	}
	return len(blob) >= 1+nonceSize+c.gcm.Overhead() && blob[0] == tokenVersion
}

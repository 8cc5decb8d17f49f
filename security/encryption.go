package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// ErrDecryptFailed marks content that could not be decrypted, either because
// the ciphertext is malformed or because the key does not match. Callers test
// for it with errors.Is and degrade instead of failing the whole request.
var ErrDecryptFailed = errors.New("content decryption failed")

// ContentCodec encrypts and decrypts note content with AES-256-GCM. The key
// is derived once from the configured key string; the codec is stateless and
// safe for concurrent use.
type ContentCodec struct {
	gcm cipher.AEAD
}

func NewContentCodec(key string) (*ContentCodec, error) {
	if key == "" {
		return nil, errors.New("encryption key must not be empty")
	}

	sum := sha256.Sum256([]byte(key))
	block, err := aes.NewCipher(sum[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &ContentCodec{gcm: gcm}, nil
}

// Encrypt returns base64(nonce || ciphertext). Empty plaintext is encrypted
// like any other value so stored ciphertext is always well formed.
func (c *ContentCodec) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := c.gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func (c *ContentCodec) Decrypt(ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: invalid encoding", ErrDecryptFailed)
	}

	nonceSize := c.gcm.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("%w: ciphertext too short", ErrDecryptFailed)
	}

	nonce, sealed := data[:nonceSize], data[nonceSize:]
	plaintext, err := c.gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptFailed, err)
	}

	return string(plaintext), nil
}

// Package cryptobox seals user-authored text with AES-256-GCM before it is
// persisted, and opens it on read. The stored form is
// hex(nonce):hex(tag):hex(ciphertext).
package cryptobox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const (
	// KeySize is the required key length in bytes (AES-256).
	KeySize = 32

	nonceSize = 12
	tagSize   = 16
	delimiter = ":"
)

var (
	ErrInvalidKeySize   = errors.New("cryptobox: key must be 32 bytes")
	ErrMalformedRecord  = errors.New("cryptobox: malformed stored record")
	ErrDecryptionFailed = errors.New("cryptobox: decryption failed")
)

// Box is a stateless codec over a single process-wide key. The key is
// supplied at construction and never generated or stored here.
type Box struct {
	aead cipher.AEAD
}

func New(key []byte) (*Box, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Box{aead: aead}, nil
}

// Seal encrypts plaintext under a fresh random nonce and returns the stored
// form. The output reveals nothing about the plaintext beyond its length.
func (b *Box) Seal(plaintext string) (string, error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("cryptobox: generate nonce: %w", err)
	}

	// GCM appends the 16-byte tag to the ciphertext; the stored form keeps
	// the tag as its own field.
	sealed := b.aead.Seal(nil, nonce, []byte(plaintext), nil)
	ciphertext := sealed[:len(sealed)-tagSize]
	tag := sealed[len(sealed)-tagSize:]

	return hex.EncodeToString(nonce) + delimiter +
		hex.EncodeToString(tag) + delimiter +
		hex.EncodeToString(ciphertext), nil
}

// Open parses and decrypts a stored record. It fails closed: a wrong field
// count, invalid hex, or a tag that does not verify all return an error and
// never partial plaintext.
func (b *Box) Open(stored string) (string, error) {
	parts := strings.Split(stored, delimiter)
	if len(parts) != 3 {
		return "", fmt.Errorf("%w: expected 3 fields, got %d", ErrMalformedRecord, len(parts))
	}

	nonce, err := hex.DecodeString(parts[0])
	if err != nil {
		return "", fmt.Errorf("%w: invalid nonce hex", ErrMalformedRecord)
	}
	if len(nonce) != nonceSize {
		return "", fmt.Errorf("%w: nonce must be %d bytes", ErrMalformedRecord, nonceSize)
	}

	tag, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("%w: invalid tag hex", ErrMalformedRecord)
	}
	if len(tag) != tagSize {
		return "", fmt.Errorf("%w: tag must be %d bytes", ErrMalformedRecord, tagSize)
	}

	ciphertext, err := hex.DecodeString(parts[2])
	if err != nil {
		return "", fmt.Errorf("%w: invalid ciphertext hex", ErrMalformedRecord)
	}

	plaintext, err := b.aead.Open(nil, nonce, append(ciphertext, tag...), nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	return string(plaintext), nil
}

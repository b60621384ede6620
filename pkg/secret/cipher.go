package secret

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 16
	nonceSize  = 12
	keySize    = 32
	iterations = 100_000
)

var (
	ErrEmptyPassphrase = errors.New("secret: empty passphrase")
	ErrMalformed       = errors.New("secret: malformed ciphertext")
)

// Cipher seals short secrets with AES-256-GCM under a PBKDF2-SHA256 key. Every Encrypt
// draws a fresh salt, so the output layout is base64(salt || nonce || ciphertext).
type Cipher struct {
	passphrase []byte
	rand       io.Reader
}

func NewCipher(passphrase string) (*Cipher, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}
	return &Cipher{passphrase: []byte(passphrase), rand: rand.Reader}, nil
}

func (c *Cipher) aead(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(c.passphrase, salt, iterations, keySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithNonceSize(block, nonceSize)
}

func (c *Cipher) Encrypt(plaintext string) (string, error) {
	buf := make([]byte, saltSize+nonceSize)
	if _, err := io.ReadFull(c.rand, buf); err != nil {
		return "", fmt.Errorf("secret: read random: %w", err)
	}
	salt, nonce := buf[:saltSize], buf[saltSize:]

	gcm, err := c.aead(salt)
	if err != nil {
		return "", fmt.Errorf("secret: init cipher: %w", err)
	}

	sealed := gcm.Seal(buf, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (c *Cipher) Decrypt(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if len(raw) < saltSize+nonceSize {
		return "", ErrMalformed
	}
	salt, nonce, sealed := raw[:saltSize], raw[saltSize:saltSize+nonceSize], raw[saltSize+nonceSize:]

	gcm, err := c.aead(salt)
	if err != nil {
		return "", fmt.Errorf("secret: init cipher: %w", err)
	}

	plain, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return string(plain), nil
}

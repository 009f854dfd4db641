// Package crypto encrypts stored snapshots with a passphrase.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 16
	iterations = 100000
	keySize    = 32 // AES-256

	// prefix marks encrypted payloads so plaintext written before a key was
	// configured can still be read.
	prefix = "enc:v1:"
)

// ErrDecrypt is returned when an encrypted payload cannot be opened, usually
// because the passphrase changed.
var ErrDecrypt = errors.New("decrypting payload")

// Encryptor handles encryption and decryption of stored data
type Encryptor struct {
	key []byte
}

// NewEncryptor creates a new encryptor with the given passphrase.
// An empty passphrase yields nil, which passes data through unchanged.
func NewEncryptor(passphrase string) *Encryptor {
	if passphrase == "" {
		return nil
	}

	return &Encryptor{key: deriveKey(passphrase, nil)}
}

// deriveKey runs PBKDF2 over passphrase. Without salt a fixed salt derived
// from the passphrase is used.
func deriveKey(passphrase string, salt []byte) []byte {
	if salt == nil {
		sum := sha256.Sum256([]byte(passphrase + "dieliga-salt"))
		salt = sum[:saltSize]
	}
	return pbkdf2.Key([]byte(passphrase), salt, iterations, keySize, sha256.New)
}

// Enabled reports whether e encrypts anything.
func (e *Encryptor) Enabled() bool {
	return e != nil && e.key != nil
}

// Encrypt seals plaintext with AES-GCM and returns a prefixed base64 string
func (e *Encryptor) Encrypt(plaintext []byte) (string, error) {
	if !e.Enabled() {
		return string(plaintext), nil // No encryption if encryptor not configured
	}

	gcm, err := e.gcm()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)
	return prefix + base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt opens a payload produced by Encrypt. Payloads without the prefix
// are returned unchanged.
func (e *Encryptor) Decrypt(payload string) ([]byte, error) {
	if len(payload) < len(prefix) || payload[:len(prefix)] != prefix {
		return []byte(payload), nil
	}
	if !e.Enabled() {
		return nil, errors.New("payload is encrypted but no key is configured")
	}

	data, err := base64.StdEncoding.DecodeString(payload[len(prefix):])
	if err != nil {
		return nil, errors.Join(ErrDecrypt, err)
	}

	gcm, err := e.gcm()
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return nil, errors.Join(ErrDecrypt, errors.New("ciphertext too short"))
	}

	nonce, cipherData := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, cipherData, nil)
	if err != nil {
		return nil, errors.Join(ErrDecrypt, err)
	}

	return plaintext, nil
}

func (e *Encryptor) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

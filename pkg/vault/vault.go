package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the required key size for AES-256.
	KeySize = 32

	// derivationInfo provides domain separation for HKDF so the seed cipher
	// key can never collide with key material derived elsewhere from the
	// same master key.
	derivationInfo = "mfakit-seed-vault-v1"
)

// Vault performs authenticated encryption of TOTP seeds with AES-256-GCM.
// The seed is the only secret in the engine that must ever be recovered in
// cleartext, so tampered or truncated ciphertext fails decryption instead
// of silently producing garbage.
//
// Vault is immutable after construction and safe for concurrent use.
type Vault struct {
	aead cipher.AEAD
}

// New creates a Vault from a 32-byte master key. The actual cipher key is
// derived via HKDF-SHA256 with a fixed info string.
func New(key []byte) (*Vault, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeyLength
	}

	derived := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, key, nil, []byte(derivationInfo)), derived); err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}

	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}

	return &Vault{aead: aead}, nil
}

// NewFromConfig creates a Vault from the environment configuration.
func NewFromConfig(cfg Config) (*Vault, error) {
	key, err := decodeKey(cfg)
	if err != nil {
		return nil, err
	}
	return New(key)
}

// Encrypt seals the seed and returns base64-encoded ciphertext with the
// random nonce prepended.
func (v *Vault) Encrypt(seed string) (string, error) {
	nonce := make([]byte, v.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", errors.Join(ErrEncryptionFailed, err)
	}

	ciphertext := v.aead.Seal(nonce, nonce, []byte(seed), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt opens base64-encoded ciphertext produced by Encrypt. Any
// malformed, truncated, or tampered input returns ErrDecryptionFailed;
// callers must treat that as account misconfiguration, never as a wrong
// code from the user.
func (v *Vault) Decrypt(encoded string) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", errors.Join(ErrDecryptionFailed, err)
	}

	nonceSize := v.aead.NonceSize()
	if len(ciphertext) < nonceSize {
		return "", ErrDecryptionFailed
	}
	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]

	seed, err := v.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", errors.Join(ErrDecryptionFailed, err)
	}

	return string(seed), nil
}

package vault

import "errors"

var (
	ErrEncryptionFailed    = errors.New("failed to encrypt seed")
	ErrDecryptionFailed    = errors.New("failed to decrypt seed")
	ErrInvalidKeyLength    = errors.New("invalid key length: must be 32 bytes")
	ErrKeyDerivationFailed = errors.New("failed to derive cipher key")
	ErrFailedToGenerateKey = errors.New("failed to generate key")
	ErrFailedToLoadKey     = errors.New("failed to load encryption key")
	ErrEncryptionKeyNotSet = errors.New("seed encryption key not set")
)

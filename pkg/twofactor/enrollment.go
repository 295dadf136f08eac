package twofactor

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"github.com/dmitrymomot/mfakit/pkg/backupcode"
	"github.com/dmitrymomot/mfakit/pkg/logger"
	"github.com/dmitrymomot/mfakit/pkg/totp"
)

var totpCodeRegex = regexp.MustCompile(`^\d{6}$`)

// StartSetup begins (or restarts) enrollment for the account: it generates
// a fresh seed, encrypts it, persists the record with enabled=false, and
// clears any existing backup codes. Calling it again before confirmation
// silently replaces the pending secret; calling it on an enabled account
// re-rolls enrollment the same way, per the wholesale-overwrite data model.
//
// The returned Setup holds the only plaintext copy of the seed the engine
// ever exposes; render it as a QR code and discard it.
func (s *Service) StartSetup(ctx context.Context, accountID uuid.UUID, label string) (*Setup, error) {
	if accountID == uuid.Nil {
		return nil, ErrInvalidAccountID
	}
	if label == "" {
		label = accountID.String()
	}

	seed, err := totp.GenerateSecretKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate seed: %w", err)
	}

	encrypted, err := s.seedVault.Encrypt(seed)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt seed: %w", err)
	}

	uri, err := totp.URI(totp.URIParams{
		Secret:      seed,
		AccountName: label,
		Issuer:      s.cfg.Issuer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build enrollment URI: %w", err)
	}

	if err := s.storage.SaveSecret(ctx, &Secret{
		AccountID:     accountID,
		EncryptedSeed: encrypted,
		Enabled:       false,
	}); err != nil {
		return nil, fmt.Errorf("failed to save secret: %w", err)
	}
	if err := s.storage.DeleteBackupCodes(ctx, accountID); err != nil {
		return nil, fmt.Errorf("failed to clear backup codes: %w", err)
	}

	s.logger.InfoContext(ctx, "two-factor setup started",
		logger.AccountID(accountID),
		logger.Component("twofactor"),
	)

	return &Setup{Secret: seed, URI: uri}, nil
}

// ConfirmSetup completes enrollment by proving the user's authenticator
// produces codes for the pending seed. On success the secret is enabled and
// a fresh batch of backup codes is minted; the plaintext codes are returned
// exactly once. On an incorrect code nothing changes and setup stays
// pending and retryable.
func (s *Service) ConfirmSetup(ctx context.Context, accountID uuid.UUID, code string) ([]string, error) {
	if accountID == uuid.Nil {
		return nil, ErrInvalidAccountID
	}
	if !totpCodeRegex.MatchString(normalizeCode(code)) {
		return nil, ErrInvalidCode
	}

	secret, err := s.storage.GetSecret(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrSecretNotFound) {
			return nil, ErrNotConfigured
		}
		return nil, fmt.Errorf("failed to load secret: %w", err)
	}
	if secret.Enabled {
		return nil, ErrAlreadyEnabled
	}

	seed, err := s.seedVault.Decrypt(secret.EncryptedSeed)
	if err != nil {
		// Tampered or corrupt ciphertext is account misconfiguration,
		// never a wrong code from the user.
		return nil, fmt.Errorf("failed to decrypt seed: %w", err)
	}

	ok, err := totp.Verify(seed, code, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to verify code: %w", err)
	}
	if !ok {
		return nil, ErrIncorrectCode
	}

	now := s.now()
	secret.Enabled = true
	secret.EnabledAt = &now
	if err := s.storage.SaveSecret(ctx, secret); err != nil {
		return nil, fmt.Errorf("failed to enable secret: %w", err)
	}

	codes, err := s.mintBackupCodes(ctx, accountID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "two-factor enabled",
		logger.AccountID(accountID),
		logger.Component("twofactor"),
	)

	return codes, nil
}

// RegenerateBackupCodes mints a new batch and replaces the stored set
// wholesale. Old codes become permanently invalid; sets are never merged.
func (s *Service) RegenerateBackupCodes(ctx context.Context, accountID uuid.UUID) ([]string, error) {
	if accountID == uuid.Nil {
		return nil, ErrInvalidAccountID
	}

	secret, err := s.storage.GetSecret(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrSecretNotFound) {
			return nil, ErrNotConfigured
		}
		return nil, fmt.Errorf("failed to load secret: %w", err)
	}
	if !secret.Enabled {
		return nil, ErrNotEnabled
	}

	codes, err := s.mintBackupCodes(ctx, accountID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "backup codes regenerated",
		logger.AccountID(accountID),
		logger.Component("twofactor"),
	)

	return codes, nil
}

// Disable turns two-factor authentication off after re-verifying the
// account password. On success the secret and all backup codes are
// destroyed; on a failed password check nothing changes.
func (s *Service) Disable(ctx context.Context, accountID uuid.UUID, password string) error {
	if accountID == uuid.Nil {
		return ErrInvalidAccountID
	}

	if _, err := s.storage.GetSecret(ctx, accountID); err != nil {
		if errors.Is(err, ErrSecretNotFound) {
			return ErrNotConfigured
		}
		return fmt.Errorf("failed to load secret: %w", err)
	}

	ok, err := s.passwords.Verify(ctx, accountID, password)
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		s.logger.WarnContext(ctx, "two-factor disable rejected",
			logger.AccountID(accountID),
			logger.Component("twofactor"),
		)
		return ErrUnauthorized
	}

	// Codes first so the "codes exist only while enabled" invariant holds
	// even if the second delete fails.
	if err := s.storage.DeleteBackupCodes(ctx, accountID); err != nil {
		return fmt.Errorf("failed to delete backup codes: %w", err)
	}
	if err := s.storage.DeleteSecret(ctx, accountID); err != nil {
		return fmt.Errorf("failed to delete secret: %w", err)
	}

	s.logger.InfoContext(ctx, "two-factor disabled",
		logger.AccountID(accountID),
		logger.Component("twofactor"),
	)

	return nil
}

func (s *Service) mintBackupCodes(ctx context.Context, accountID uuid.UUID) ([]string, error) {
	codes, err := backupcode.Generate(s.cfg.BackupCodeCount)
	if err != nil {
		return nil, fmt.Errorf("failed to generate backup codes: %w", err)
	}
	hashes, err := backupcode.HashAll(codes)
	if err != nil {
		return nil, fmt.Errorf("failed to hash backup codes: %w", err)
	}
	if err := s.storage.SaveBackupCodes(ctx, accountID, hashes); err != nil {
		s.logger.ErrorContext(ctx, "failed to save backup codes",
			logger.AccountID(accountID),
			logger.Error(err),
			logger.Component("twofactor"),
		)
		return nil, fmt.Errorf("failed to save backup codes: %w", err)
	}
	return codes, nil
}

package twofactor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrymomot/mfakit/pkg/backupcode"
	"github.com/dmitrymomot/mfakit/pkg/challenge"
	"github.com/dmitrymomot/mfakit/pkg/logger"
	"github.com/dmitrymomot/mfakit/pkg/totp"
)

// VerifyChallenge arbitrates one second-factor attempt: it resolves the
// challenge token, tries the submitted code as a TOTP code and then as a
// backup code, and on success asks the session issuer for a full session.
//
// The challenge is consumed only after session creation succeeds; if the
// issuer fails, the challenge stays valid (within its TTL and attempt
// ceiling) so the client can retry without redoing first-factor login.
// An incorrect code likewise leaves the challenge retryable.
func (s *Service) VerifyChallenge(ctx context.Context, token, code string, meta SessionMeta) (*Result, error) {
	ch, err := s.registry.Lookup(ctx, token)
	if err != nil {
		if errors.Is(err, challenge.ErrChallengeNotFound) {
			return nil, ErrChallengeExpired
		}
		return nil, fmt.Errorf("failed to look up challenge: %w", err)
	}

	secret, err := s.storage.GetSecret(ctx, ch.AccountID)
	if err != nil && !errors.Is(err, ErrSecretNotFound) {
		return nil, fmt.Errorf("failed to load secret: %w", err)
	}
	if err != nil || !secret.Enabled {
		// No code can ever satisfy this challenge; burn it so it is not
		// left retryable.
		_, _ = s.registry.Consume(ctx, token)
		return nil, ErrNotConfigured
	}

	if _, err := s.registry.IncrementAttempts(ctx, token); err != nil {
		switch {
		case errors.Is(err, challenge.ErrTooManyAttempts):
			s.logger.WarnContext(ctx, "challenge burned after too many attempts",
				logger.AccountID(ch.AccountID),
				logger.Component("twofactor"),
			)
			return nil, ErrTooManyAttempts
		case errors.Is(err, challenge.ErrChallengeNotFound):
			return nil, ErrChallengeExpired
		default:
			return nil, fmt.Errorf("failed to count attempt: %w", err)
		}
	}

	code = normalizeCode(code)

	method, remaining, err := s.matchCode(ctx, secret, code)
	if err != nil {
		return nil, err
	}

	sessionToken, err := s.sessions.Create(ctx, ch.AccountID, meta)
	if err != nil {
		// Challenge intentionally left unconsumed: a correct user must not
		// be stranded by a session-issuer hiccup.
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	won, err := s.registry.Consume(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to consume challenge: %w", err)
	}
	if !won {
		// A parallel verification of the same challenge beat us to it.
		return nil, ErrChallengeExpired
	}

	s.logger.InfoContext(ctx, "second factor verified",
		logger.AccountID(ch.AccountID),
		logger.Method(string(method)),
		logger.Component("twofactor"),
	)

	return &Result{
		AccountID:            ch.AccountID,
		SessionToken:         sessionToken,
		Method:               method,
		BackupCodesRemaining: remaining,
	}, nil
}

// matchCode tries TOTP first, then falls back to the backup-code set. It
// returns the matched method and, for backup codes, how many remain.
func (s *Service) matchCode(ctx context.Context, secret *Secret, code string) (Method, int, error) {
	seed, err := s.seedVault.Decrypt(secret.EncryptedSeed)
	if err != nil {
		return "", 0, fmt.Errorf("failed to decrypt seed: %w", err)
	}

	ok, err := totp.Verify(seed, code, s.now())
	if err != nil {
		return "", 0, fmt.Errorf("failed to verify code: %w", err)
	}
	if ok {
		hashes, err := s.storage.GetBackupCodes(ctx, secret.AccountID)
		if err != nil {
			return "", 0, fmt.Errorf("failed to load backup codes: %w", err)
		}
		return MethodTOTP, len(hashes), nil
	}

	remaining, err := s.spendBackupCode(ctx, secret, code)
	if err != nil {
		return "", 0, err
	}
	return MethodBackupCode, remaining, nil
}

// spendBackupCode verifies the candidate against the stored hash set and
// persists the reduced set with a conditional write. A lost race is retried
// once against a fresh read before ErrConflict surfaces; if the re-read
// shows the code gone, the racing request spent it and this one reports an
// incorrect code.
func (s *Service) spendBackupCode(ctx context.Context, secret *Secret, code string) (int, error) {
	for attempt := 0; attempt < 2; attempt++ {
		hashes, err := s.storage.GetBackupCodes(ctx, secret.AccountID)
		if err != nil {
			return 0, fmt.Errorf("failed to load backup codes: %w", err)
		}

		ok, remaining := backupcode.Verify(hashes, code)
		if !ok {
			return 0, ErrIncorrectCode
		}

		err = s.storage.ReplaceBackupCodes(ctx, secret.AccountID, hashes, remaining)
		if err == nil {
			return len(remaining), nil
		}
		if !errors.Is(err, ErrConflict) {
			return 0, fmt.Errorf("failed to persist backup codes: %w", err)
		}
		if attempt == 1 {
			return 0, ErrConflict
		}
	}

	return 0, ErrConflict
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

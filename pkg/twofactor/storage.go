package twofactor

import (
	"context"

	"github.com/google/uuid"
)

// Storage defines the persistence contract for two-factor secrets and
// hashed backup-code sets. Backup codes exist only while the secret is
// enabled; both records are destroyed together on disable.
type Storage interface {
	// GetSecret returns the account's two-factor record, or
	// ErrSecretNotFound when the account has never started enrollment.
	GetSecret(ctx context.Context, accountID uuid.UUID) (*Secret, error)

	// SaveSecret upserts the record wholesale.
	SaveSecret(ctx context.Context, secret *Secret) error

	// DeleteSecret removes the record. Deleting a missing record is not an
	// error.
	DeleteSecret(ctx context.Context, accountID uuid.UUID) error

	// GetBackupCodes returns the stored hash set, empty when none exist.
	GetBackupCodes(ctx context.Context, accountID uuid.UUID) ([]string, error)

	// SaveBackupCodes replaces the stored hash set wholesale.
	SaveBackupCodes(ctx context.Context, accountID uuid.UUID, hashes []string) error

	// ReplaceBackupCodes conditionally replaces the stored set: the write
	// succeeds only if the stored set still equals expected, otherwise
	// ErrConflict. This is the compare-and-swap that prevents two requests
	// racing on the same backup code from both spending it.
	ReplaceBackupCodes(ctx context.Context, accountID uuid.UUID, expected, replacement []string) error

	// DeleteBackupCodes clears the stored hash set.
	DeleteBackupCodes(ctx context.Context, accountID uuid.UUID) error
}

// PasswordVerifier re-checks the account's first-factor password. Used only
// by Disable as defense in depth, since disabling lowers account security.
type PasswordVerifier interface {
	Verify(ctx context.Context, accountID uuid.UUID, password string) (bool, error)
}

// SessionIssuer mints a full session after the second factor succeeds. The
// engine never creates sessions itself; it only decides when one is earned.
type SessionIssuer interface {
	Create(ctx context.Context, accountID uuid.UUID, meta SessionMeta) (string, error)
}

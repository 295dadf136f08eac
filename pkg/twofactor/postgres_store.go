package twofactor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Storage on a pgx connection pool. Secrets and
// their backup-code hash sets share a row keyed by account, which lets the
// conditional backup-code replacement compile to a single UPDATE guarded by
// the previously read set.
//
// Expected schema:
//
//	CREATE TABLE two_factor_secrets (
//	    account_id     UUID PRIMARY KEY,
//	    encrypted_seed TEXT NOT NULL,
//	    enabled        BOOLEAN NOT NULL DEFAULT FALSE,
//	    enabled_at     TIMESTAMPTZ,
//	    backup_codes   TEXT[] NOT NULL DEFAULT '{}'
//	);
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed two-factor store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, ErrNilDependency
	}
	return &PostgresStore{pool: pool}, nil
}

func (p *PostgresStore) GetSecret(ctx context.Context, accountID uuid.UUID) (*Secret, error) {
	secret := &Secret{AccountID: accountID}
	err := p.pool.QueryRow(ctx,
		`SELECT encrypted_seed, enabled, enabled_at FROM two_factor_secrets WHERE account_id = $1`,
		accountID,
	).Scan(&secret.EncryptedSeed, &secret.Enabled, &secret.EnabledAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSecretNotFound
		}
		return nil, fmt.Errorf("failed to query secret: %w", err)
	}
	return secret, nil
}

func (p *PostgresStore) SaveSecret(ctx context.Context, secret *Secret) error {
	if secret == nil || secret.AccountID == uuid.Nil {
		return ErrInvalidAccountID
	}

	_, err := p.pool.Exec(ctx,
		`INSERT INTO two_factor_secrets (account_id, encrypted_seed, enabled, enabled_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (account_id) DO UPDATE
		 SET encrypted_seed = EXCLUDED.encrypted_seed,
		     enabled = EXCLUDED.enabled,
		     enabled_at = EXCLUDED.enabled_at`,
		secret.AccountID, secret.EncryptedSeed, secret.Enabled, secret.EnabledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert secret: %w", err)
	}
	return nil
}

func (p *PostgresStore) DeleteSecret(ctx context.Context, accountID uuid.UUID) error {
	if _, err := p.pool.Exec(ctx,
		`DELETE FROM two_factor_secrets WHERE account_id = $1`, accountID,
	); err != nil {
		return fmt.Errorf("failed to delete secret: %w", err)
	}
	return nil
}

func (p *PostgresStore) GetBackupCodes(ctx context.Context, accountID uuid.UUID) ([]string, error) {
	var hashes []string
	err := p.pool.QueryRow(ctx,
		`SELECT backup_codes FROM two_factor_secrets WHERE account_id = $1`, accountID,
	).Scan(&hashes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query backup codes: %w", err)
	}
	return hashes, nil
}

func (p *PostgresStore) SaveBackupCodes(ctx context.Context, accountID uuid.UUID, hashes []string) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE two_factor_secrets SET backup_codes = $2 WHERE account_id = $1`,
		accountID, hashes,
	)
	if err != nil {
		return fmt.Errorf("failed to save backup codes: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSecretNotFound
	}
	return nil
}

// ReplaceBackupCodes relies on the WHERE clause matching the previously
// read set: if a concurrent spender already shrank the array, zero rows
// update and the caller observes ErrConflict.
func (p *PostgresStore) ReplaceBackupCodes(ctx context.Context, accountID uuid.UUID, expected, replacement []string) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE two_factor_secrets SET backup_codes = $3 WHERE account_id = $1 AND backup_codes = $2`,
		accountID, expected, replacement,
	)
	if err != nil {
		return fmt.Errorf("failed to replace backup codes: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

func (p *PostgresStore) DeleteBackupCodes(ctx context.Context, accountID uuid.UUID) error {
	if _, err := p.pool.Exec(ctx,
		`UPDATE two_factor_secrets SET backup_codes = '{}' WHERE account_id = $1`,
		accountID,
	); err != nil {
		return fmt.Errorf("failed to delete backup codes: %w", err)
	}
	return nil
}

package challenge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Registry arbitrates the lifecycle of second-factor challenges: creation
// after a first-factor success, lookup during verification, attempt
// accounting with a brute-force ceiling, and single-use consumption.
type Registry struct {
	store Store
	cfg   Config
}

// NewRegistry creates a Registry over the given store.
func NewRegistry(store Store, cfg Config) (*Registry, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Registry{store: store, cfg: cfg}, nil
}

// Create allocates a new challenge for the account and persists it with the
// configured TTL. Called once per first-factor login success.
func (r *Registry) Create(ctx context.Context, accountID uuid.UUID) (*Challenge, error) {
	token, err := NewToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ch := &Challenge{
		Token:     token,
		AccountID: accountID,
		CreatedAt: now,
		ExpiresAt: now.Add(r.cfg.TTL),
	}

	if err := r.store.Save(ctx, ch); err != nil {
		return nil, fmt.Errorf("failed to save challenge: %w", err)
	}
	return ch, nil
}

// Lookup returns the challenge for the token if it is live. Unknown,
// expired, and already-consumed tokens all yield ErrChallengeNotFound:
// the three cases are indistinguishable to the caller so the error leaks
// nothing about which tokens exist.
func (r *Registry) Lookup(ctx context.Context, token string) (*Challenge, error) {
	if token == "" {
		return nil, ErrChallengeNotFound
	}

	ch, err := r.store.Get(ctx, token)
	if err != nil {
		if errors.Is(err, ErrChallengeNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to look up challenge: %w", err)
	}
	if ch.IsExpired() || ch.IsConsumed() {
		return nil, ErrChallengeNotFound
	}
	return ch, nil
}

// IncrementAttempts atomically bumps the attempt counter. Once the count
// exceeds the configured ceiling the challenge is burned (marked consumed)
// and ErrTooManyAttempts is returned, capping brute force per challenge
// independently of any caller-side rate limiting.
func (r *Registry) IncrementAttempts(ctx context.Context, token string) (int, error) {
	count, err := r.store.IncrementAttempts(ctx, token)
	if err != nil {
		if errors.Is(err, ErrChallengeNotFound) {
			return 0, ErrChallengeNotFound
		}
		return 0, fmt.Errorf("failed to increment attempts: %w", err)
	}

	if count > r.cfg.MaxAttempts {
		// Losing the consume race here is fine: someone else burned it.
		if _, err := r.store.Consume(ctx, token, time.Now()); err != nil && !errors.Is(err, ErrChallengeNotFound) {
			return count, fmt.Errorf("failed to burn challenge: %w", err)
		}
		return count, ErrTooManyAttempts
	}

	return count, nil
}

// Consume atomically spends the challenge. Exactly one concurrent caller
// receives true; all others receive false and must treat the challenge as
// already used.
func (r *Registry) Consume(ctx context.Context, token string) (bool, error) {
	ok, err := r.store.Consume(ctx, token, time.Now())
	if err != nil {
		if errors.Is(err, ErrChallengeNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to consume challenge: %w", err)
	}
	return ok, nil
}

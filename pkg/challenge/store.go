package challenge

import (
	"context"
	"time"
)

// Store defines the persistence contract for challenges. Implementations
// must make Consume and IncrementAttempts atomic: concurrent calls racing
// on the same token resolve to exactly one winner.
type Store interface {
	// Save stores a new challenge keyed by its token.
	Save(ctx context.Context, ch *Challenge) error

	// Get retrieves the raw challenge record, including expired and
	// consumed ones; policy lives in the Registry. Returns
	// ErrChallengeNotFound for unknown tokens.
	Get(ctx context.Context, token string) (*Challenge, error)

	// IncrementAttempts atomically bumps the attempt counter and returns
	// the new value.
	IncrementAttempts(ctx context.Context, token string) (int, error)

	// Consume atomically transitions the challenge from not-consumed to
	// consumed at the given instant. Returns true only for the caller that
	// wins the race; false when the challenge was already consumed.
	Consume(ctx context.Context, token string, at time.Time) (bool, error)

	// Delete removes a challenge by token.
	Delete(ctx context.Context, token string) error

	// DeleteExpired reclaims storage held by expired challenges. Expiry is
	// enforced lazily at lookup time regardless; this only frees memory.
	DeleteExpired(ctx context.Context) error
}

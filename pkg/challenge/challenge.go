package challenge

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
)

// tokenBytes gives 256 bits of randomness per token, comfortably above the
// 128-bit unguessability floor.
const tokenBytes = 32

// Challenge is a short-lived, single-use record representing "first factor
// passed, second factor pending" for one login attempt.
type Challenge struct {
	Token      string     `json:"token"`
	AccountID  uuid.UUID  `json:"account_id"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
	Attempts   int        `json:"attempts"`
}

// IsExpired returns true if the challenge TTL has elapsed.
func (c *Challenge) IsExpired() bool {
	return c != nil && time.Now().After(c.ExpiresAt)
}

// IsConsumed returns true if the challenge has already been spent.
func (c *Challenge) IsConsumed() bool {
	return c != nil && c.ConsumedAt != nil
}

// NewToken allocates a new opaque, unguessable challenge token.
func NewToken() (string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", errors.Join(ErrFailedToGenerateToken, err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

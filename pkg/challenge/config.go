package challenge

import (
	"fmt"
	"time"
)

type Config struct {
	TTL             time.Duration `env:"MFA_CHALLENGE_TTL" envDefault:"10m"`              // TTL is how long a challenge stays valid after first-factor success.
	MaxAttempts     int           `env:"MFA_CHALLENGE_MAX_ATTEMPTS" envDefault:"5"`       // MaxAttempts is the verification-attempt ceiling before the challenge is burned.
	CleanupInterval time.Duration `env:"MFA_CHALLENGE_CLEANUP_INTERVAL" envDefault:"1m"`  // CleanupInterval is how often the in-memory store reclaims expired challenges. Zero disables the janitor.
}

// DefaultConfig returns the production defaults without consulting the
// environment.
func DefaultConfig() Config {
	return Config{
		TTL:             10 * time.Minute,
		MaxAttempts:     5,
		CleanupInterval: time.Minute,
	}
}

func (c Config) validate() error {
	if c.TTL <= 0 {
		return fmt.Errorf("%w: TTL must be positive, got %v", ErrInvalidConfig, c.TTL)
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("%w: max attempts must be positive, got %d", ErrInvalidConfig, c.MaxAttempts)
	}
	return nil
}

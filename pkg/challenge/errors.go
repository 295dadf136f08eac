package challenge

import "errors"

var (
	// ErrChallengeNotFound covers unknown, expired, and already-consumed
	// tokens alike; callers cannot tell which case occurred.
	ErrChallengeNotFound = errors.New("challenge not found")

	ErrTooManyAttempts       = errors.New("too many verification attempts")
	ErrFailedToGenerateToken = errors.New("failed to generate challenge token")
	ErrNilStore              = errors.New("challenge store is required")
	ErrInvalidChallenge      = errors.New("invalid challenge")
	ErrNilRedisClient        = errors.New("redis client is required")
	ErrStoreUnavailable      = errors.New("challenge store unavailable")
	ErrConcurrentUpdate      = errors.New("challenge update lost too many races")
	ErrInvalidConfig         = errors.New("invalid challenge config")
)

package twofactor

import "errors"

// Validation errors
var (
	ErrInvalidAccountID = errors.New("invalid account id")
	ErrInvalidCode      = errors.New("invalid code format")
)

// State-precondition errors
var (
	ErrNotConfigured  = errors.New("two-factor authentication not configured")
	ErrAlreadyEnabled = errors.New("two-factor authentication already enabled")
	ErrNotEnabled     = errors.New("two-factor authentication not enabled")
)

// Verification errors
var (
	// ErrIncorrectCode is recoverable: the same challenge stays retryable
	// up to the attempt ceiling.
	ErrIncorrectCode = errors.New("incorrect code")

	// ErrChallengeExpired covers unknown, expired, and already-consumed
	// challenges alike; the caller must restart first-factor login.
	ErrChallengeExpired = errors.New("challenge expired")

	ErrTooManyAttempts = errors.New("too many verification attempts")
	ErrUnauthorized    = errors.New("unauthorized")
)

// Storage errors
var (
	ErrSecretNotFound = errors.New("two-factor secret not found")

	// ErrConflict reports a conditional write that lost its race after the
	// internal retry; the caller may repeat the whole operation.
	ErrConflict = errors.New("concurrent modification conflict")
)

// Construction errors
var (
	ErrNilDependency = errors.New("missing required dependency")
	ErrInvalidConfig = errors.New("invalid twofactor config")
)

// Package twofactor orchestrates time-based one-time-password (TOTP)
// enrollment and second-factor challenge verification on top of pluggable
// storage.
//
// The package owns the decision logic of multi-factor authentication and
// nothing else: it never renders UI, never creates sessions itself, and
// never sees first-factor passwords except through the PasswordVerifier
// port. Persistence is behind the Storage interface with in-memory and
// PostgreSQL implementations provided; challenge state lives in a
// challenge.Registry (memory or Redis backed).
//
// # Enrollment
//
// Enrollment is a two-phase handshake so an account can never be locked
// out by a mistyped seed:
//
//	setup, err := svc.StartSetup(ctx, accountID, "alice@example.com")
//	// show setup.URI as a QR code; the user scans it
//
//	codes, err := svc.ConfirmSetup(ctx, accountID, "123456")
//	// two-factor is now enabled; codes are the one-time backup codes,
//	// shown to the user exactly once
//
// StartSetup stores the seed encrypted (vault.Vault, AES-256-GCM) with
// enabled=false. ConfirmSetup proves the authenticator works before
// flipping the flag and minting backup codes. Restarting setup replaces
// the pending record wholesale.
//
// # Verification
//
// After a successful first factor, the login flow creates a challenge via
// svc.Registry().Create and hands its token to the client. The client
// answers with a code, which may be a current TOTP code or an unspent
// backup code:
//
//	result, err := svc.VerifyChallenge(ctx, token, code, twofactor.SessionMeta{
//	    IP:        r.RemoteAddr,
//	    UserAgent: r.UserAgent(),
//	})
//
// Challenges are single-use, expire after a TTL, and carry a per-challenge
// attempt ceiling. Backup codes are stored as bcrypt hashes and spent with
// a compare-and-swap write, so a code races to a single winner even across
// concurrent requests.
//
// # Errors
//
// All failure modes surface as sentinel errors (ErrIncorrectCode,
// ErrChallengeExpired, ErrTooManyAttempts, ...) suitable for errors.Is
// dispatch at the transport layer. ErrIncorrectCode is recoverable within
// the same challenge; ErrChallengeExpired means the client must redo
// first-factor login.
package twofactor

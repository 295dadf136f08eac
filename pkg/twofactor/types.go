package twofactor

import (
	"time"

	"github.com/google/uuid"
)

// Secret is the per-account two-factor record. Exactly one exists per
// account; it is overwritten wholesale on re-enrollment and destroyed on
// disable. The encrypted seed is opaque ciphertext and must never be
// logged.
type Secret struct {
	AccountID     uuid.UUID  `json:"account_id"`
	EncryptedSeed string     `json:"-"`
	Enabled       bool       `json:"enabled"`
	EnabledAt     *time.Time `json:"enabled_at,omitempty"`
}

// Setup is returned from StartSetup for display to the user. The plaintext
// seed appears here exactly once and is never persisted.
type Setup struct {
	Secret string // Base32 seed for manual entry into an authenticator app
	URI    string // otpauth:// URI for QR rendering
}

// SessionMeta carries request metadata handed to the session issuer.
type SessionMeta struct {
	IP        string
	UserAgent string
}

// Method identifies which credential satisfied the second factor.
type Method string

const (
	MethodTOTP       Method = "totp"
	MethodBackupCode Method = "backup_code"
)

// Result is returned from a successful challenge verification.
type Result struct {
	AccountID            uuid.UUID
	SessionToken         string
	Method               Method
	BackupCodesRemaining int
}

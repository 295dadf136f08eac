// Package vault provides reversible, authenticated encryption for TOTP
// seeds using AES-256-GCM with an HKDF-derived cipher key.
//
// The seed is the one long-lived secret in the MFA engine that must be
// recoverable in cleartext, transiently, to compute a code. Everything else
// (backup codes) is hashed irreversibly by a separate primitive with
// separate key material; the two schemes must never be merged.
//
// Authenticated encryption makes corruption tamper-evident: a forged or
// truncated ciphertext fails with ErrDecryptionFailed rather than silently
// decrypting to garbage that would then be compared against a forged code.
//
// # Usage
//
//	cfg, _ := vault.LoadConfig()
//	v, _ := vault.NewFromConfig(cfg)
//
//	ciphertext, _ := v.Encrypt(seed)
//	// persist ciphertext; never log it
//
//	seed, err := v.Decrypt(ciphertext)
//	if errors.Is(err, vault.ErrDecryptionFailed) {
//	    // stored record is corrupt: account misconfiguration, not a wrong code
//	}
//
// Vault values are immutable and safe for concurrent use.
package vault

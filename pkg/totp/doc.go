// Package totp implements RFC 6238 time-based one-time passwords for the
// second-factor verification flow: secret key generation, enrollment URI
// construction, and drift-tolerant code verification.
//
// The verifier accepts codes computed for the previous, current, and next
// 30-second time steps so that modest clock skew between the server and an
// authenticator app does not reject a correct code. Candidate comparison is
// constant-time to avoid timing side channels. The wider guess surface the
// drift window creates is bounded by the per-challenge attempt ceiling
// enforced one layer up.
//
// The package implements the RFC 4226/6238 construction directly on the
// standard library rather than pulling in a third-party OTP dependency,
// keeping the cryptographic surface small and auditable.
//
// # Usage
//
//	secret, _ := totp.GenerateSecretKey()
//
//	uri, _ := totp.URI(totp.URIParams{
//	    Secret:      secret,
//	    AccountName: "alice@example.com",
//	    Issuer:      "Acme",
//	})
//	// render uri as a QR code for the authenticator app
//
//	ok, _ := totp.Verify(secret, "123456", time.Now())
//
// All functions are pure and safe for concurrent use.
//
// # See Also
//
//   - RFC 4226 – HMAC-Based One-Time Password (HOTP) Algorithm
//   - RFC 6238 – Time-Based One-Time Password (TOTP) Algorithm
package totp

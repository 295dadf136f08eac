// Package backupcode generates and verifies single-use recovery codes that
// substitute for a TOTP code when the user loses access to their
// authenticator device.
//
// Each code is 8 uppercase hex characters of independent randomness,
// returned in plaintext exactly once at generation time. Storage only ever
// sees salted bcrypt hashes: the codes are irreversibly hashed, in contrast
// to the TOTP seed which is reversibly encrypted by the vault package with
// separate key material.
//
// Verify is a pure transform over a hash set. Persisting the reduced set it
// returns is the caller's job and must be a compare-and-swap against the
// previously read set, so that two requests racing on the same code cannot
// both spend it.
//
// # Usage
//
//	codes, _ := backupcode.Generate(10)
//	hashes, _ := backupcode.HashAll(codes)
//	// show codes to the user once, persist hashes
//
//	ok, remaining := backupcode.Verify(hashes, userInput)
//	if ok {
//	    // conditionally persist remaining keyed on the set read above
//	}
package backupcode

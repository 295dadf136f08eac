package backupcode

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	// codeBytes yields 8 uppercase hex characters per code.
	codeBytes = 4

	// DefaultCount is the batch size handed out on enrollment.
	DefaultCount = 10
)

// ValidCodeRegex matches a normalized backup code: 8 uppercase hex characters.
var ValidCodeRegex = regexp.MustCompile("^[0-9A-F]{8}$")

// Generate creates n cryptographically random single-use backup codes.
// Codes are pairwise distinct and returned in plaintext exactly once for
// display to the user; only their hashes may be persisted.
func Generate(n int) ([]string, error) {
	if n < 1 {
		return nil, ErrInvalidCodeCount
	}

	codes := make([]string, 0, n)
	seen := make(map[string]struct{}, n)
	for len(codes) < n {
		raw := make([]byte, codeBytes)
		if _, err := rand.Read(raw); err != nil {
			return nil, errors.Join(ErrFailedToGenerateCode, err)
		}
		code := strings.ToUpper(hex.EncodeToString(raw))
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes, nil
}

// Hash creates a salted one-way bcrypt hash of the normalized code for
// storage. bcrypt is deliberately a different primitive from the seed
// vault's reversible cipher; the two must never share an algorithm or key
// material.
func Hash(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(Normalize(code)), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Join(ErrFailedToHashCode, err)
	}
	return string(hash), nil
}

// Verify checks the candidate against a set of stored hashes. On a match it
// returns true and the set with that single entry removed; on no match it
// returns false and the set unchanged. An empty set never matches.
//
// Every stored hash is compared even after a match is found, so verification
// cost does not depend on where in the set the matching code sits. The
// returned remaining set must be persisted with a conditional write keyed on
// the previously read set: two concurrent requests spending the same code
// must produce exactly one winner.
func Verify(hashes []string, candidate string) (bool, []string) {
	if len(hashes) == 0 {
		return false, hashes
	}

	normalized := []byte(Normalize(candidate))

	match := -1
	for i, hash := range hashes {
		if err := bcrypt.CompareHashAndPassword([]byte(hash), normalized); err == nil && match < 0 {
			match = i
		}
	}
	if match < 0 {
		return false, hashes
	}

	remaining := make([]string, 0, len(hashes)-1)
	remaining = append(remaining, hashes[:match]...)
	remaining = append(remaining, hashes[match+1:]...)
	return true, remaining
}

// Normalize trims surrounding whitespace and uppercases the code so entry
// is case-insensitive.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// HashAll hashes a freshly generated batch, preserving order for
// deterministic storage.
func HashAll(codes []string) ([]string, error) {
	hashes := make([]string, 0, len(codes))
	for _, code := range codes {
		hash, err := Hash(code)
		if err != nil {
			return nil, err
		}
		hashes = append(hashes, hash)
	}
	return slices.Clip(hashes), nil
}

// Package fingerprint derives the deduplication key of a transaction.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/cleared-dev/releve/internal/model"
	"github.com/cleared-dev/releve/internal/normalize"
)

// Len is the length of a fingerprint in hex characters.
const Len = sha256.Size * 2

// Key returns the canonical string a fingerprint is computed over:
// "2024-02-01|APPLE.COM|-5.99".
func Key(t model.Transaction) string {
	label := strings.ToUpper(normalize.CollapseSpaces(t.Label))
	return t.DateString() + "|" + label + "|" + t.Amount.StringFixed(2)
}

// Of returns the fingerprint of t. Two statements listing the same
// operation on the same day with the same label and amount produce the
// same fingerprint, whatever the file they came from.
func Of(t model.Transaction) string {
	sum := sha256.Sum256([]byte(Key(t)))
	return hex.EncodeToString(sum[:])
}

// Valid reports whether s looks like a fingerprint.
func Valid(s string) bool {
	if len(s) != Len {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}

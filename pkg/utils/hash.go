package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashString creates a SHA-256 hash of the input string
func HashString(input string) string {
	h := sha256.New()
	h.Write([]byte(input))

	return hex.EncodeToString(h.Sum(nil))
}

// HashEmail returns a short, stable identifier for an email address so it
// can be correlated across log lines without being written out.
func HashEmail(email string) string {
	return HashString(email)[:16]
}

package id

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID32 returns exactly 32 lowercase hex characters (16 random bytes).
// Used for bearer token keys.
func NewID32() string { return randomHex(16) }

// NewToken returns a 64-char lowercase hex string (32 random bytes),
// long enough to be used as a one-time secret in a URL.
func NewToken() string { return randomHex(32) }

func randomHex(n int) string {
	b := make([]byte, n)
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Package token generates and validates opaque retrieval tokens
package token

import (
	"crypto/rand"
	"encoding/hex"
)

// Bytes of entropy per token; hex-encoded length is twice this.
const entropyBytes = 16

// Length is the length of an encoded token in characters.
const Length = entropyBytes * 2

// New produces a random hexadecimal token. Uniqueness is probabilistic,
// not enforced; the store adds an index for defense in depth.
func New() string {
	buf := make([]byte, entropyBytes)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// Valid reports whether s has the exact shape of a generated token.
// Callback payloads and deep-link arguments are attacker-controlled, so
// they must pass this check before being used as store keys.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

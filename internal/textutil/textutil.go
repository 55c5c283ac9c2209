package textutil

import (
	"crypto/sha256"
	"encoding/hex"
	"unicode"
)

// ContainsChinese checks if a string contains Chinese characters.
// It is the gate before every translation call: text without Han
// characters is never sent to the translator.
func ContainsChinese(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// IsChinese reports whether a single rune falls in the Han block.
func IsChinese(r rune) bool {
	return unicode.Is(unicode.Han, r)
}

// Hash computes a SHA-256 hex hash of a string, used as the
// deduplication key for the in-run translation cache.
func Hash(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

// Truncate shortens a string to at most maxRunes runes, appending "..."
// if truncated. Safe to call on multi-byte text.
func Truncate(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}

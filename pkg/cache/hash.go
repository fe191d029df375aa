package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Key builds a namespaced cache key: namespace followed by the hash of parts.
//
//	cache.Key("github:", "GET", "https://api.github.com/repos/o/r/tags?page=2")
func Key(namespace string, parts ...string) string {
	return namespace + Hash([]byte(strings.Join(parts, "\x00")))
}

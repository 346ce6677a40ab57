// Package cache stores collaborator payloads so repeated submissions of the
// same content do not hit the analyzer again.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

const keyPrefix = "assay:v1:"

// Cache is a byte store with per-entry expiry. A zero ttl means the store's
// default.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a stable cache key from its parts, e.g. Key("url", rawURL) or
// Key("image", digest). Parts are joined with NUL so ("a","bc") and ("ab","c")
// never collide.
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return keyPrefix + hex.EncodeToString(hash[:])
}

// Digest returns the hex sha256 of data, used to key uploaded images by
// content rather than by file name
func Digest(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for report caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from raw group-file bytes. The same input bytes
// always compute the same report, so the digest fully identifies the result.
// The version segment invalidates everything when the report schema changes.
func Key(input []byte) string {
	hash := sha256.Sum256(input)
	return "holdgraph:v1:" + hex.EncodeToString(hash[:])
}

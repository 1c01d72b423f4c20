package httpapi

import (
	"crypto/sha256"
	"encoding/hex"
)

// fingerprint computes the hex-encoded SHA-256 digest of data, used as
// both the cache key and the value returned to clients as cache_key.
func fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

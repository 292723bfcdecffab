// Package digest computes content digests for integrity reporting.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// chunkSize keeps memory flat regardless of file size.
const chunkSize = 64 * 1024

// Sum streams r through SHA-256 and returns the lowercase hex digest.
// Identical bytes always produce identical digests; the digest is used
// for integrity reporting, not content deduplication.
func Sum(r io.Reader) (string, error) {
	hasher := sha256.New()
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(hasher, r, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

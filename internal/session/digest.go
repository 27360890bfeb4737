package session

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// Digest returns the hex-encoded SHA3-256 digest of a document.
func Digest(document string) string {
	sum := sha3.Sum256([]byte(document))
	return hex.EncodeToString(sum[:])
}

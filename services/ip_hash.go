package services

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// HashIP pseudonymises an IP address with keyed BLAKE2b-256.
// The same ip and secret always give the same hex digest.
func HashIP(ip, secret string) string {
	key := []byte(secret)
	if len(key) > blake2b.Size {
		sum := blake2b.Sum256(key)
		key = sum[:]
	}

	h, err := blake2b.New256(key)
	if err != nil {
		// Only returned for keys longer than 64 bytes, which are shortened above
		panic(err)
	}
	h.Write([]byte(ip))

	return hex.EncodeToString(h.Sum(nil))
}

package common

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// HashLength is the byte length of a SHA3-256 digest.
const HashLength = 32

// HexHashLength is the character length of a hex encoded SHA3-256 digest.
const HexHashLength = 2 * HashLength

// Sha3Hash calculates the SHA3-256 digest over the concatenation of data
// and returns it as a lowercase hex string.
func Sha3Hash(data ...[]byte) string {
	d := sha3.New256()
	for _, b := range data {
		d.Write(b)
	}
	return hex.EncodeToString(d.Sum(nil))
}

// IsHexString checks s is a lowercase hex string of exactly length chars.
func IsHexString(s string, length int) bool {
	if len(s) != length {
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

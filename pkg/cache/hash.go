package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// digest builds a "prefix:sha256" key from ordered string parts. Parts are
// length-prefixed so that ("ab", "c") and ("a", "bc") never collide.
func digest(prefix string, parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strconv.Itoa(len(p)))
		b.WriteByte(':')
		b.WriteString(p)
	}
	return prefix + ":" + Hash([]byte(b.String()))
}

// Hash returns the hex-encoded SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

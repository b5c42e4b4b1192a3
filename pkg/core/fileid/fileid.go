// Package fileid computes the content-addressed identity token used to
// refer to a discovered file throughout a match run: on the wire to the
// AIProvider, and as the cache key for a per-file reference (spec §3.2).
package fileid

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
)

// Prefix is prepended to every identity token.
const Prefix = "file_"

// Compute derives a stable token from (relativePath, size). The same pair
// always yields the same token; different pairs yield different tokens
// with overwhelming probability. relativePath must already use forward
// slashes (see discovery.MediaFile.RelativePath).
func Compute(relativePath string, size int64) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(relativePath))

	var sizeBuf [8]byte
	binary.LittleEndian.PutUint64(sizeBuf[:], uint64(size))
	_, _ = h.Write(sizeBuf[:])

	return fmt.Sprintf("%s%016x", Prefix, h.Sum64())
}

// Valid reports whether s has the shape of a token produced by Compute.
// It does not verify the token against any particular (path, size) pair.
func Valid(s string) bool {
	if len(s) != len(Prefix)+16 {
		return false
	}
	if s[:len(Prefix)] != Prefix {
		return false
	}
	for _, c := range s[len(Prefix):] {
		if !isLowerHex(c) {
			return false
		}
	}
	return true
}

func isLowerHex(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
}

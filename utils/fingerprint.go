package utils

import "hash/fnv"

// FingerprintString returns the 64-bit FNV-1a hash of s. Statement caches
// and log correlation keys are derived from it.
func FingerprintString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// Mix64 folds two fingerprints into one.
func Mix64(a, b uint64) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(U64ToBytes(a))
	_, _ = h.Write(U64ToBytes(b))
	return h.Sum64()
}

func U64ToBytes(u uint64) []byte {
	return []byte{
		byte(u >> 56), byte(u >> 48), byte(u >> 40), byte(u >> 32),
		byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u),
	}
}

// Package hash maps store keys to shards with xxHash64.
package hash

import "github.com/cespare/xxhash/v2"

// Key computes the xxHash64 of a store key.
func Key(key string) uint64 {
	return xxhash.Sum64String(key)
}

// Shard returns the shard index of key among n shards.
//
// n must be positive. When n is a power of two the index is taken from the
// low bits of the hash, otherwise by modulo.
func Shard(key string, n int) int {
	h := Key(key)
	if n&(n-1) == 0 {
		return int(h & uint64(n-1))
	}

	return int(h % uint64(n))
}

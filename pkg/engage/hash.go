// Package engage implements the engagement scorer: value score, quality
// score, rate limiting, and the deterministic reply/like/skip split.
package engage

import "hash/fnv"

// Bucket maps a (username, text) pair to a stable bucket in [0,100).
//
// The hash is FNV-1a over "username|text". This is a contract, not an
// implementation detail: identical inputs must produce identical
// engagement outcomes so that decisions are replayable in tests and
// offline analysis.
func Bucket(username, text string) int {
	h := fnv.New32a()
	h.Write([]byte(username))
	h.Write([]byte{'|'})
	h.Write([]byte(text))
	return int(h.Sum32() % 100)
}

// SelectIndex maps a seed string to a stable index in [0,n).
// Used wherever a deterministic pick from a pool is needed.
func SelectIndex(seed string, n int) int {
	if n <= 0 {
		return 0
	}
	h := fnv.New32a()
	h.Write([]byte(seed))
	return int(h.Sum32() % uint32(n))
}

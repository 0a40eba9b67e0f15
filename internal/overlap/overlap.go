// Package overlap finds the longest span that is simultaneously a suffix
// of existing content and a prefix of incoming content. The length of
// that span is the number of leading bytes a merge may skip: appending
// incoming[k:] after existing yields no duplicated run at the seam.
//
// Two interchangeable detectors are provided. Direct compares candidate
// spans byte for byte and is preferred for short inputs. RollingHash
// compares polynomial hashes first and verifies candidates directly, so
// a hash collision can cost a comparison but never a wrong answer.
package overlap

const (
	// directThreshold is the input size at or below which Detect uses the
	// direct detector. Below this the hash setup costs more than it saves.
	directThreshold = 1024

	// MinHashOverlap is the smallest overlap length the rolling-hash
	// detector resolves by hashing. Shorter overlaps are found by direct
	// comparison over the last few bytes, where hashing has no advantage.
	MinHashOverlap = 4

	hashBase    = 256
	hashModulus = 1_000_000_007
)

// Detect returns the length of the longest suffix of existing that is
// also a prefix of incoming. It picks the detector by input size; both
// return identical results on every input.
func Detect(existing, incoming string) int {
	if len(existing) <= directThreshold || len(incoming) <= directThreshold {
		return Direct(existing, incoming)
	}
	return RollingHash(existing, incoming)
}

// Direct finds the overlap by byte comparison, longest candidate first,
// so the first match is the answer.
func Direct(existing, incoming string) int {
	maxK := min(len(existing), len(incoming))
	for k := maxK; k > 0; k-- {
		if existing[len(existing)-k:] == incoming[:k] {
			return k
		}
	}
	return 0
}

// RollingHash finds the overlap by comparing polynomial hashes of
// existing's suffixes against incoming's prefixes, longest first. Every
// hash match is verified by direct comparison before being returned, so
// collisions cannot produce a wrong length.
func RollingHash(existing, incoming string) int {
	maxK := min(len(existing), len(incoming))
	if maxK < MinHashOverlap {
		return Direct(existing, incoming)
	}

	// prefixHash[k] covers incoming[:k]; suffixHash[k] covers the last k
	// bytes of existing. Both use the same polynomial, so equal spans
	// hash equal.
	prefixHash := make([]uint64, maxK+1)
	for k := 0; k < maxK; k++ {
		prefixHash[k+1] = (prefixHash[k]*hashBase + uint64(incoming[k])) % hashModulus
	}

	suffixHash := make([]uint64, maxK+1)
	power := uint64(1)
	n := len(existing)
	for k := 0; k < maxK; k++ {
		suffixHash[k+1] = (uint64(existing[n-1-k])*power + suffixHash[k]) % hashModulus
		power = (power * hashBase) % hashModulus
	}

	for k := maxK; k >= MinHashOverlap; k-- {
		if suffixHash[k] != prefixHash[k] {
			continue
		}
		if existing[n-k:] == incoming[:k] {
			return k
		}
	}

	// Any remaining candidate is shorter than MinHashOverlap and lives in
	// the last few bytes of existing.
	tail := existing
	if n > MinHashOverlap-1 {
		tail = existing[n-(MinHashOverlap-1):]
	}
	return Direct(tail, incoming)
}

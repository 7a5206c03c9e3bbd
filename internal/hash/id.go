// Package hash computes the 64-bit identifiers the registry uses to key
// interfaces by display name.
package hash

import "github.com/cespare/xxhash/v2"

// ID returns the xxHash64 of an interface name.
func ID(name string) uint64 {
	return xxhash.Sum64String(name)
}

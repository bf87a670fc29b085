// Package hash provides the hashing primitive used to build fast
// case-insensitive lookup keys for plugin names.
package hash

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// NameKey computes a stable lookup key for a plugin name: the xxHash64 of
// its lowercased form, so that case-insensitive equality turns into an
// O(1) map lookup instead of a linear case-insensitive scan.
func NameKey(name string) uint64 {
	return xxhash.Sum64String(strings.ToLower(name))
}

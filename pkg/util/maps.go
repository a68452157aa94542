// Package util holds small generic helpers shared across packages.
package util

import (
	"cmp"
	"slices"
)

// SortedKeys returns m's keys in ascending order, for deterministic
// iteration.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

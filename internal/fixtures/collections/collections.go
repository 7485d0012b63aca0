package collections

import "maps"

// ImmutableMap is a read-only string keyed map.
type ImmutableMap map[string]int

// MapOf copies m into a new ImmutableMap.
func MapOf(m map[string]int) ImmutableMap {
	return ImmutableMap(maps.Clone(m))
}

// Get returns the value stored under k.
func (m ImmutableMap) Get(k string) (int, bool) {
	v, ok := m[k]
	return v, ok
}

// ImmutableList is a read-only list.
type ImmutableList []int

// ListOf copies items into a new ImmutableList.
func ListOf(items ...int) ImmutableList {
	return append(ImmutableList(nil), items...)
}

// Len returns the number of items.
func (l ImmutableList) Len() int { return len(l) }

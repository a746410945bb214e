package client

import "sort"

// IDSet holds the identities a screen currently has rendered. Identities
// are strings of the form "bucket/id" so an item moving between status
// columns shows up as one removal and one addition.
type IDSet map[string]struct{}

func NewIDSet(ids ...string) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s IDSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// DiffIDs computes what changed between two renders: added is next\prev,
// removed is prev\next. Results are sorted so rendering is deterministic,
// but correctness does not depend on iteration order.
func DiffIDs(prev, next IDSet) (added, removed []string) {
	for id := range next {
		if !prev.Contains(id) {
			added = append(added, id)
		}
	}
	for id := range prev {
		if !next.Contains(id) {
			removed = append(removed, id)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}

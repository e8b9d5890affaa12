package flock

import (
	"sort"

	"github.com/flockgraph/flock/types"
)

// Intersection returns the ids present in every given set, deduplicated,
// in first-occurrence order of the first set. Passing the sets ordered
// ascending by size keeps the scan cheap but is not required for
// correctness.
func Intersection(sets ...[]types.UserID) []types.UserID {
	if len(sets) == 0 {
		return nil
	}

	others := make([]map[types.UserID]struct{}, 0, len(sets)-1)
	for _, set := range sets[1:] {
		members := make(map[types.UserID]struct{}, len(set))
		for _, id := range set {
			members[id] = struct{}{}
		}
		others = append(others, members)
	}

	seen := make(map[types.UserID]struct{}, len(sets[0]))
	var result []types.UserID
	for _, id := range sets[0] {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		inAll := true
		for _, members := range others {
			if _, ok := members[id]; !ok {
				inAll = false
				break
			}
		}
		if inAll {
			result = append(result, id)
		}
	}

	return result
}

// ThresholdOverlap returns every id appearing in at least threshold of the
// given sets' combined elements. Counting is done by sorting the flattened
// ids and grouping runs, so the result is ordered ascending by id. A
// threshold equal to the number of sets degenerates to an intersection;
// a threshold of 1 yields the deduplicated union.
func ThresholdOverlap(sets [][]types.UserID, threshold int) []types.UserID {
	var flat []types.UserID
	for _, set := range sets {
		flat = append(flat, set...)
	}

	sort.Slice(flat, func(i, j int) bool { return flat[i] < flat[j] })

	var result []types.UserID
	for i := 0; i < len(flat); {
		j := i
		for j < len(flat) && flat[j] == flat[i] {
			j++
		}
		if j-i >= threshold {
			result = append(result, flat[i])
		}
		i = j
	}

	return result
}

package loopblock

import "iter"

// Permutations yields every legal ordering of the loop axes named by
// partition: axes within one group may be freely reordered (Heap's
// algorithm, applied per group), but the groups themselves stay in
// their given order, since they represent independent components of an
// SCC decomposition already fixed by the topological solve. For
// partition {[1],[0,3],[2,4]} this yields 1!*2!*2! = 4 orderings, per
// spec.md §8's "2!*2! because the singleton component is fixed".
//
// Also used by the cost model's cache-loop permutation search
// (costmodel's bestCachePermutation), which passes all cache loops as a
// single group.
func Permutations(partition [][]int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if len(partition) == 0 {
			yield(nil)
			return
		}
		permuteGroups(partition, 0, nil, yield)
	}
}

// permuteGroups recursively enumerates, for each group in partition
// from index gi onward, every ordering of that group's own elements
// (via heapPermute), concatenating onto prefix, and forwards the fully
// built permutation to yield once gi reaches len(partition).
func permuteGroups(partition [][]int, gi int, prefix []int, yield func([]int) bool) bool {
	if gi == len(partition) {
		out := append([]int(nil), prefix...)
		return yield(out)
	}
	cont := true
	heapPermute(partition[gi], func(perm []int) bool {
		cont = permuteGroups(partition, gi+1, append(prefix, perm...), yield)
		return cont
	})
	return cont
}

// heapPermute enumerates every permutation of group in place via Heap's
// algorithm, calling fn with the current arrangement; stops early if fn
// returns false.
func heapPermute(group []int, fn func([]int) bool) bool {
	n := len(group)
	arr := append([]int(nil), group...)
	if n == 0 {
		return fn(arr)
	}
	if !fn(arr) {
		return false
	}

	c := make([]int, n)
	i := 0
	for i < n {
		if c[i] < i {
			if i%2 == 0 {
				arr[0], arr[i] = arr[i], arr[0]
			} else {
				arr[c[i]], arr[i] = arr[i], arr[c[i]]
			}
			if !fn(arr) {
				return false
			}
			c[i]++
			i = 0
		} else {
			c[i] = 0
			i++
		}
	}
	return true
}

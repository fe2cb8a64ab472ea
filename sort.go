package fluidsim

import "sort"

// SortPairs orders the first n entries of keys and indices by ascending
// key, carrying indices along so that (keys[i], indices[i]) pairs are
// preserved. This is the CPU twin of the external GPU sort the frame
// driver invokes between pre_sort and post_sort (§4.5): no off-the-shelf
// Go GPU sort library exists in the ecosystem this module draws from, so
// the device-side sort is implemented directly as a bitonic network of
// WGSL dispatches in GpuSorter (sort_gpu.go), and this function only
// needs to reproduce its externally observable contract — keys
// non-decreasing, indices permuted in lockstep — for the host reference
// path and its tests.
//
// The sort need not be stable for correctness (§4.5): post_sort only
// needs the smallest index per key, which holds regardless of how ties
// are broken. sort.SliceStable is used anyway because it makes output
// deterministic across runs for a given input, which the test suite
// relies on.
func SortPairs(keys []uint32, indices []uint32, n int) {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return keys[perm[a]] < keys[perm[b]]
	})

	sortedKeys := make([]uint32, n)
	sortedIndices := make([]uint32, n)
	for i, p := range perm {
		sortedKeys[i] = keys[p]
		sortedIndices[i] = indices[p]
	}
	copy(keys[:n], sortedKeys)
	copy(indices[:n], sortedIndices)
}

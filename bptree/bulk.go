package bptree

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

// ErrUnsorted is returned by BulkLoad when the input keys are not
// strictly increasing.
var ErrUnsorted = errors.New("bptree: bulk load requires strictly increasing keys")

// BulkLoad builds a tree of the given order from an already sorted
// sequence in one pass: leaves are packed left to right, then each
// internal level is layered on top. This is how snapshots are restored;
// it is O(n) instead of the O(n log n) of repeated Insert.
//
// Keys must be strictly increasing; duplicates or disorder abort with
// ErrUnsorted.
func BulkLoad[K, V any](order int, cmp func(a, b K) int, seq iter.Seq2[K, V]) (*Tree[K, V], error) {
	t, err := New[K, V](order, cmp)
	if err != nil {
		return nil, err
	}

	leaves := []*Node[K, V]{t.root}
	cur := t.root
	var last K
	for k, v := range seq {
		if t.size > 0 && cmp(last, k) >= 0 {
			return nil, fmt.Errorf("%w: %v after %v", ErrUnsorted, k, last)
		}
		last = k
		if len(cur.keys) == t.maxKeys() {
			next := t.newLeaf()
			cur.next = next
			cur = next
			leaves = append(leaves, next)
		}
		cur.keys = append(cur.keys, k)
		cur.values = append(cur.values, v)
		t.size++
	}
	if len(leaves) == 1 {
		return t, nil
	}

	// Packing full leaves can leave the rightmost one under the floor;
	// shift entries over from its (full) neighbor.
	tail := leaves[len(leaves)-1]
	if need := t.minKeys() - len(tail.keys); need > 0 {
		prev := leaves[len(leaves)-2]
		cut := len(prev.keys) - need
		tail.keys = slices.Insert(tail.keys, 0, prev.keys[cut:]...)
		tail.values = slices.Insert(tail.values, 0, prev.values[cut:]...)
		prev.keys = slices.Delete(prev.keys, cut, len(prev.keys))
		prev.values = slices.Delete(prev.values, cut, len(prev.values))
	}

	level := leaves
	firsts := make([]K, len(level))
	for i, n := range level {
		firsts[i] = n.keys[0]
	}
	for len(level) > 1 {
		sizes := groupSizes(len(level), t.order, t.minKeys()+1)
		parents := make([]*Node[K, V], 0, len(sizes))
		parentFirsts := make([]K, 0, len(sizes))
		pos := 0
		for _, size := range sizes {
			p := t.newInternal()
			for j := range size {
				c := level[pos+j]
				c.parent = p
				p.children = append(p.children, c)
				if j > 0 {
					// The separator above a subtree is its smallest key.
					p.keys = append(p.keys, firsts[pos+j])
				}
			}
			parents = append(parents, p)
			parentFirsts = append(parentFirsts, firsts[pos])
			pos += size
		}
		level = parents
		firsts = parentFirsts
	}
	t.root = level[0]
	return t, nil
}

// groupSizes splits n children into groups of at most max while keeping
// every group at least min, borrowing from the neighbor when the natural
// remainder would fall short.
func groupSizes(n, max, min int) []int {
	if n <= max {
		return []int{n}
	}
	sizes := make([]int, 0, n/max+1)
	for range n / max {
		sizes = append(sizes, max)
	}
	if rem := n % max; rem > 0 {
		if rem < min {
			sizes[len(sizes)-1] -= min - rem
			rem = min
		}
		sizes = append(sizes, rem)
	}
	return sizes
}

package bptree

import (
	"iter"
	"slices"
)

// Range returns an in-order iterator over all entries with
// start <= key <= end. Both bounds are inclusive; start > end yields an
// empty sequence. The tree must not be modified during iteration.
//
// The scan descends once to the start leaf and then walks the leaf
// chain, so the cost is O(log n + k) for k yielded entries.
func (t *Tree[K, V]) Range(start, end K) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if t.cmp(start, end) > 0 {
			return
		}
		n := t.findLeaf(start)
		i, _ := slices.BinarySearchFunc(n.keys, start, t.cmp)
		for n != nil {
			for ; i < len(n.keys); i++ {
				if t.cmp(n.keys[i], end) > 0 {
					return
				}
				if !yield(n.keys[i], n.values[i]) {
					return
				}
			}
			n = n.next
			i = 0
		}
	}
}

// All returns an in-order iterator over every entry, walking the leaf
// chain from the leftmost leaf. The tree must not be modified during
// iteration.
func (t *Tree[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for n := t.leftmostLeaf(); n != nil; n = n.next {
			for i := range n.keys {
				if !yield(n.keys[i], n.values[i]) {
					return
				}
			}
		}
	}
}

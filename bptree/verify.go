package bptree

import "fmt"

// Check walks the whole tree and verifies its structural invariants:
// per-node key ordering and occupancy bounds, separator routing bounds,
// parent back-pointers, uniform leaf depth, leaf chain completeness, and
// the size counter. It returns the first violation found, or nil.
//
// A non-nil result means a bug in this package, not bad input; tests
// call Check after mutation batches.
func (t *Tree[K, V]) Check() error {
	if t.root == nil {
		return fmt.Errorf("nil root")
	}
	if t.root.parent != nil {
		return fmt.Errorf("root has a parent")
	}
	if !t.root.leaf && len(t.root.children) < 2 {
		return fmt.Errorf("internal root with %d children", len(t.root.children))
	}

	var (
		leaves    []*Node[K, V]
		leafDepth = -1
		keys      int
	)
	var walk func(n *Node[K, V], depth int, lo, hi *K) error
	walk = func(n *Node[K, V], depth int, lo, hi *K) error {
		for i, k := range n.keys {
			if i > 0 && t.cmp(n.keys[i-1], k) >= 0 {
				return fmt.Errorf("keys out of order at depth %d", depth)
			}
			if lo != nil && t.cmp(k, *lo) < 0 {
				return fmt.Errorf("key below subtree lower bound at depth %d", depth)
			}
			if hi != nil && t.cmp(k, *hi) >= 0 {
				return fmt.Errorf("key above subtree upper bound at depth %d", depth)
			}
		}
		if len(n.keys) > t.maxKeys() {
			return fmt.Errorf("node with %d keys exceeds max %d", len(n.keys), t.maxKeys())
		}
		if n != t.root && len(n.keys) < t.minKeys() {
			return fmt.Errorf("node with %d keys below min %d at depth %d", len(n.keys), t.minKeys(), depth)
		}

		if n.leaf {
			if len(n.values) != len(n.keys) {
				return fmt.Errorf("leaf with %d keys but %d values", len(n.keys), len(n.values))
			}
			if n.children != nil {
				return fmt.Errorf("leaf with children")
			}
			if leafDepth == -1 {
				leafDepth = depth
			} else if depth != leafDepth {
				return fmt.Errorf("leaf at depth %d, expected %d", depth, leafDepth)
			}
			leaves = append(leaves, n)
			keys += len(n.keys)
			return nil
		}

		if n.values != nil {
			return fmt.Errorf("internal node with values")
		}
		if len(n.children) != len(n.keys)+1 {
			return fmt.Errorf("internal node with %d keys but %d children", len(n.keys), len(n.children))
		}
		if n.next != nil {
			return fmt.Errorf("internal node with a chain pointer")
		}
		for i, c := range n.children {
			if c.parent != n {
				return fmt.Errorf("child %d has a stale parent pointer", i)
			}
			clo, chi := lo, hi
			if i > 0 {
				clo = &n.keys[i-1]
			}
			if i < len(n.keys) {
				chi = &n.keys[i]
			}
			if err := walk(c, depth+1, clo, chi); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(t.root, 1, nil, nil); err != nil {
		return err
	}

	// The chain must visit exactly the in-order leaves.
	n := t.leftmostLeaf()
	for i, want := range leaves {
		if n != want {
			return fmt.Errorf("leaf chain diverges at leaf %d", i)
		}
		n = n.next
	}
	if n != nil {
		return fmt.Errorf("leaf chain extends past the rightmost leaf")
	}

	if keys != t.size {
		return fmt.Errorf("size %d but %d keys stored", t.size, keys)
	}
	return nil
}

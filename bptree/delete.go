package bptree

import "slices"

// Delete removes key and returns whether it was present. Deleting an
// absent key leaves the tree untouched.
func (t *Tree[K, V]) Delete(key K) bool {
	leaf := t.findLeaf(key)
	i, ok := slices.BinarySearchFunc(leaf.keys, key, t.cmp)
	if !ok {
		return false
	}
	leaf.keys = slices.Delete(leaf.keys, i, i+1)
	leaf.values = slices.Delete(leaf.values, i, i+1)
	t.size--
	t.rebalance(leaf)
	return true
}

// rebalance restores the occupancy floor after a removal, trying in
// order: borrow from the left sibling, borrow from the right sibling,
// merge with a sibling (preferring the left). A merge removes one
// separator from the parent, so the check recurses upward.
func (t *Tree[K, V]) rebalance(n *Node[K, V]) {
	if n == t.root {
		t.collapseRoot()
		return
	}
	if len(n.keys) >= t.minKeys() {
		return
	}

	p := n.parent
	i := p.childIndex(n)

	if i > 0 && len(p.children[i-1].keys) > t.minKeys() {
		t.borrowFromLeft(p, i, n)
		return
	}
	if i < len(p.children)-1 && len(p.children[i+1].keys) > t.minKeys() {
		t.borrowFromRight(p, i, n)
		return
	}

	if i > 0 {
		t.merge(p, i-1)
	} else {
		t.merge(p, i)
	}
	t.rebalance(p)
}

// borrowFromLeft shifts the left sibling's last entry into n. For leaves
// the separator becomes n's new first key; for internal nodes the old
// separator rotates down into n and the borrowed key rotates up.
func (t *Tree[K, V]) borrowFromLeft(p *Node[K, V], i int, n *Node[K, V]) {
	left := p.children[i-1]
	last := len(left.keys) - 1

	if n.leaf {
		n.keys = slices.Insert(n.keys, 0, left.keys[last])
		n.values = slices.Insert(n.values, 0, left.values[last])
		left.keys = slices.Delete(left.keys, last, last+1)
		left.values = slices.Delete(left.values, last, last+1)
		p.keys[i-1] = n.keys[0]
		return
	}

	child := left.children[len(left.children)-1]
	n.keys = slices.Insert(n.keys, 0, p.keys[i-1])
	n.children = slices.Insert(n.children, 0, child)
	child.parent = n
	p.keys[i-1] = left.keys[last]
	left.keys = slices.Delete(left.keys, last, last+1)
	left.children = slices.Delete(left.children, len(left.children)-1, len(left.children))
}

// borrowFromRight shifts the right sibling's first entry into n,
// mirroring borrowFromLeft.
func (t *Tree[K, V]) borrowFromRight(p *Node[K, V], i int, n *Node[K, V]) {
	right := p.children[i+1]

	if n.leaf {
		n.keys = append(n.keys, right.keys[0])
		n.values = append(n.values, right.values[0])
		right.keys = slices.Delete(right.keys, 0, 1)
		right.values = slices.Delete(right.values, 0, 1)
		p.keys[i] = right.keys[0]
		return
	}

	child := right.children[0]
	n.keys = append(n.keys, p.keys[i])
	n.children = append(n.children, child)
	child.parent = n
	p.keys[i] = right.keys[0]
	right.keys = slices.Delete(right.keys, 0, 1)
	right.children = slices.Delete(right.children, 0, 1)
}

// merge folds p.children[sep+1] into p.children[sep] and drops the
// separator between them. Leaf merges splice the chain; internal merges
// pull the separator down between the two key runs.
func (t *Tree[K, V]) merge(p *Node[K, V], sep int) {
	left := p.children[sep]
	right := p.children[sep+1]

	if left.leaf {
		left.keys = append(left.keys, right.keys...)
		left.values = append(left.values, right.values...)
		left.next = right.next
	} else {
		left.keys = append(left.keys, p.keys[sep])
		left.keys = append(left.keys, right.keys...)
		for _, c := range right.children {
			c.parent = left
		}
		left.children = append(left.children, right.children...)
	}

	p.keys = slices.Delete(p.keys, sep, sep+1)
	p.children = slices.Delete(p.children, sep+1, sep+2)
}

// collapseRoot drops an internal root that lost its last separator,
// promoting its only child and shrinking the height. An empty leaf root
// stays: that is the empty tree.
func (t *Tree[K, V]) collapseRoot() {
	if !t.root.leaf && len(t.root.keys) == 0 {
		t.root = t.root.children[0]
		t.root.parent = nil
	}
}

package bptree

import "slices"

// Insert stores value under key. Inserting a key that is already present
// replaces its value in place and changes nothing structurally.
func (t *Tree[K, V]) Insert(key K, value V) {
	leaf := t.findLeaf(key)
	i, ok := slices.BinarySearchFunc(leaf.keys, key, t.cmp)
	if ok {
		leaf.values[i] = value
		return
	}
	leaf.keys = slices.Insert(leaf.keys, i, key)
	leaf.values = slices.Insert(leaf.values, i, value)
	t.size++
	if len(leaf.keys) > t.maxKeys() {
		t.splitLeaf(leaf)
	}
}

// splitLeaf divides an overflowing leaf in half. The right half keeps
// [mid:], its first key is copied up as the new separator, and the new
// leaf is linked into the chain.
func (t *Tree[K, V]) splitLeaf(n *Node[K, V]) {
	mid := len(n.keys) / 2
	right := t.newLeaf()
	right.keys = append(right.keys, n.keys[mid:]...)
	right.values = append(right.values, n.values[mid:]...)
	n.keys = slices.Delete(n.keys, mid, len(n.keys))
	n.values = slices.Delete(n.values, mid, len(n.values))

	right.next = n.next
	n.next = right

	t.insertIntoParent(n, right.keys[0], right)
}

// splitInternal divides an overflowing internal node. The median key
// moves up as the separator; it appears in neither half.
func (t *Tree[K, V]) splitInternal(n *Node[K, V]) {
	mid := len(n.keys) / 2
	sep := n.keys[mid]

	right := t.newInternal()
	right.keys = append(right.keys, n.keys[mid+1:]...)
	right.children = append(right.children, n.children[mid+1:]...)
	for _, c := range right.children {
		c.parent = right
	}
	n.keys = slices.Delete(n.keys, mid, len(n.keys))
	n.children = slices.Delete(n.children, mid+1, len(n.children))

	t.insertIntoParent(n, sep, right)
}

// insertIntoParent links a freshly split right sibling under left's
// parent, growing a new root when left was the root.
func (t *Tree[K, V]) insertIntoParent(left *Node[K, V], sep K, right *Node[K, V]) {
	p := left.parent
	if p == nil {
		root := t.newInternal()
		root.keys = append(root.keys, sep)
		root.children = append(root.children, left, right)
		left.parent = root
		right.parent = root
		t.root = root
		return
	}

	i := p.childIndex(left)
	p.keys = slices.Insert(p.keys, i, sep)
	p.children = slices.Insert(p.children, i+1, right)
	right.parent = p

	if len(p.keys) > t.maxKeys() {
		t.splitInternal(p)
	}
}

package bptree

import "slices"

// Get returns the value stored under key, if present. A missing key is a
// normal outcome, not an error.
func (t *Tree[K, V]) Get(key K) (V, bool) {
	leaf := t.findLeaf(key)
	if i, ok := slices.BinarySearchFunc(leaf.keys, key, t.cmp); ok {
		return leaf.values[i], true
	}
	var zero V
	return zero, false
}

// Contains reports whether key is present.
func (t *Tree[K, V]) Contains(key K) bool {
	_, ok := t.Get(key)
	return ok
}

// Min returns the smallest key and its value, or ok=false on an empty
// tree.
func (t *Tree[K, V]) Min() (K, V, bool) {
	n := t.leftmostLeaf()
	if len(n.keys) == 0 {
		var k K
		var v V
		return k, v, false
	}
	return n.keys[0], n.values[0], true
}

// Max returns the largest key and its value, or ok=false on an empty
// tree.
func (t *Tree[K, V]) Max() (K, V, bool) {
	n := t.root
	for !n.leaf {
		n = n.children[len(n.children)-1]
	}
	if len(n.keys) == 0 {
		var k K
		var v V
		return k, v, false
	}
	return n.keys[len(n.keys)-1], n.values[len(n.values)-1], true
}

// findLeaf descends to the leaf whose key range covers key. Keys equal
// to a separator route to the right child.
func (t *Tree[K, V]) findLeaf(key K) *Node[K, V] {
	n := t.root
	for !n.leaf {
		i, ok := slices.BinarySearchFunc(n.keys, key, t.cmp)
		if ok {
			i++
		}
		n = n.children[i]
	}
	return n
}

func (t *Tree[K, V]) leftmostLeaf() *Node[K, V] {
	n := t.root
	for !n.leaf {
		n = n.children[0]
	}
	return n
}

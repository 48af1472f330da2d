package bptree

// Node is a single tree node. Internal nodes carry separator keys and
// children; leaves carry keys, their values, and the chain pointer to the
// next leaf. The accessor methods expose a read-only view for traversal
// and rendering; all mutation goes through Tree operations.
type Node[K, V any] struct {
	parent   *Node[K, V]
	keys     []K
	values   []V          // leaf only, parallel to keys
	children []*Node[K, V] // internal only, len(keys)+1
	next     *Node[K, V]  // leaf chain
	leaf     bool
}

// Leaf reports whether the node is a leaf.
func (n *Node[K, V]) Leaf() bool { return n.leaf }

// Keys returns the node's keys. The returned slice is the node's backing
// storage and must not be modified.
func (n *Node[K, V]) Keys() []K { return n.keys }

// Values returns a leaf's values, parallel to Keys. Nil for internal
// nodes. The returned slice must not be modified.
func (n *Node[K, V]) Values() []V { return n.values }

// Children returns an internal node's children. Nil for leaves. The
// returned slice must not be modified.
func (n *Node[K, V]) Children() []*Node[K, V] { return n.children }

// Next returns the following leaf in the chain, or nil for the rightmost
// leaf and for internal nodes.
func (n *Node[K, V]) Next() *Node[K, V] { return n.next }

func (t *Tree[K, V]) newLeaf() *Node[K, V] {
	return &Node[K, V]{
		leaf:   true,
		keys:   make([]K, 0, t.order),
		values: make([]V, 0, t.order),
	}
}

func (t *Tree[K, V]) newInternal() *Node[K, V] {
	return &Node[K, V]{
		keys:     make([]K, 0, t.order),
		children: make([]*Node[K, V], 0, t.order+1),
	}
}

// childIndex returns the position of child among n's children.
func (n *Node[K, V]) childIndex(child *Node[K, V]) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	panic("bptree: node is not a child of its parent")
}

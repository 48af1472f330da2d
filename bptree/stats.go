package bptree

// TreeStats summarizes the shape of a tree.
type TreeStats struct {
	Order         int `json:"order"`
	Keys          int `json:"keys"`
	Height        int `json:"height"`
	InternalNodes int `json:"internal_nodes"`
	LeafNodes     int `json:"leaf_nodes"`
}

// Stats walks the tree and reports its shape. Height counts levels, so
// a lone leaf root has height 1.
func (t *Tree[K, V]) Stats() TreeStats {
	s := TreeStats{Order: t.order, Keys: t.size}
	var walk func(n *Node[K, V], depth int)
	walk = func(n *Node[K, V], depth int) {
		if depth > s.Height {
			s.Height = depth
		}
		if n.leaf {
			s.LeafNodes++
			return
		}
		s.InternalNodes++
		for _, c := range n.children {
			walk(c, depth+1)
		}
	}
	walk(t.root, 1)
	return s
}

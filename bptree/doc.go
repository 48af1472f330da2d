// Package bptree implements an in-memory B+ tree: an ordered index with
// O(log n) point lookups, inserts, and deletes, plus linear range scans
// over a linked chain of leaves.
//
// # Structure
//
// A tree of order m keeps keys only as routing separators in internal
// nodes; every key/value entry lives in a leaf. Internal nodes hold up to
// m children, leaves up to m-1 entries, and all leaves sit at the same
// depth. Leaves are chained left to right, so a range scan descends once
// and then walks the chain.
//
// # Usage
//
//	t, err := bptree.NewOrdered[int, string](4)
//	if err != nil { ... }
//	t.Insert(42, "answer")
//	v, ok := t.Get(42)
//	for k, v := range t.Range(10, 50) { ... }
//
// Keys that are not cmp.Ordered use New with an explicit comparator.
//
// # Concurrency
//
// A Tree is not safe for concurrent use. Callers serialize access; the
// tree itself never spawns background work.
package bptree

package bptree

import (
	"cmp"
	"errors"
	"fmt"
)

// MinOrder is the smallest supported tree order.
const MinOrder = 3

// ErrInvalidOrder is returned when a tree is constructed with an order
// below MinOrder.
var ErrInvalidOrder = errors.New("bptree: invalid order")

// InvalidOrderError reports the rejected order value.
//
// It matches ErrInvalidOrder under errors.Is.
type InvalidOrderError struct {
	Order int
}

func (e *InvalidOrderError) Error() string {
	return fmt.Sprintf("bptree: invalid order %d (minimum %d)", e.Order, MinOrder)
}

func (e *InvalidOrderError) Unwrap() error { return ErrInvalidOrder }

// Tree is a B+ tree of order m mapping keys to opaque values. Keys are
// globally unique; inserting an existing key replaces its value.
//
// The zero Tree is not usable; construct with New, NewOrdered, or
// BulkLoad.
type Tree[K, V any] struct {
	order int
	cmp   func(K, K) int
	root  *Node[K, V]
	size  int
}

// New returns an empty tree of the given order. The comparator follows
// the slices.BinarySearchFunc convention: negative if a sorts before b,
// zero if equal, positive otherwise. Orders below MinOrder are rejected.
func New[K, V any](order int, cmp func(a, b K) int) (*Tree[K, V], error) {
	if order < MinOrder {
		return nil, &InvalidOrderError{Order: order}
	}
	if cmp == nil {
		return nil, errors.New("bptree: nil comparator")
	}
	t := &Tree[K, V]{order: order, cmp: cmp}
	t.root = t.newLeaf()
	return t, nil
}

// NewOrdered returns an empty tree over a naturally ordered key type.
func NewOrdered[K cmp.Ordered, V any](order int) (*Tree[K, V], error) {
	return New[K, V](order, cmp.Compare[K])
}

// Order returns the tree order m.
func (t *Tree[K, V]) Order() int { return t.order }

// Len returns the number of stored keys.
func (t *Tree[K, V]) Len() int { return t.size }

// Root returns the root node for read-only traversal. The root is a leaf
// until the first split and is never nil.
func (t *Tree[K, V]) Root() *Node[K, V] { return t.root }

// maxKeys is the per-node key capacity; one more triggers a split.
func (t *Tree[K, V]) maxKeys() int { return t.order - 1 }

// minKeys is the occupancy floor for non-root nodes: ceil(m/2)-1.
func (t *Tree[K, V]) minKeys() int { return (t.order+1)/2 - 1 }

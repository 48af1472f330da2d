// Package render turns trees into Graphviz DOT graphs and plain-text
// level dumps for inspection from the CLI and the HTTP API.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/emicklei/dot"

	"github.com/hupe1980/btreego/bptree"
)

// Options control DOT rendering.
type Options struct {
	// Title is drawn above the graph when set.
	Title string

	// ShowValues renders leaf entries as key=value instead of bare keys.
	ShowValues bool

	// MaxValueLen truncates rendered values. Defaults to 24.
	MaxValueLen int
}

// WithTitle sets the graph title.
func WithTitle(title string) func(*Options) {
	return func(o *Options) {
		o.Title = title
	}
}

// WithValues renders leaf values next to their keys.
func WithValues() func(*Options) {
	return func(o *Options) {
		o.ShowValues = true
	}
}

// WithMaxValueLen bounds the rendered length of a single value.
func WithMaxValueLen(n int) func(*Options) {
	return func(o *Options) {
		o.MaxValueLen = n
	}
}

// DOT renders the tree as a Graphviz digraph: one box per tree node,
// solid parent to child edges, and dashed rank-free edges along the
// leaf chain.
func DOT[K, V any](t *bptree.Tree[K, V], optFns ...func(*Options)) string {
	opts := Options{MaxValueLen: 24}
	for _, fn := range optFns {
		fn(&opts)
	}

	g := dot.NewGraph(dot.Directed)
	g.Attr("rankdir", "TB")
	if opts.Title != "" {
		g.Attr("label", opts.Title)
		g.Attr("labelloc", "t")
	}

	// Breadth-first walk assigning stable ids, then edges in the same
	// order so output is deterministic.
	var order []*bptree.Node[K, V]
	nodes := make(map[*bptree.Node[K, V]]dot.Node)
	queue := []*bptree.Node[K, V]{t.Root()}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		dn := g.Node(fmt.Sprintf("n%d", len(order)))
		dn.Attr("shape", "box")
		if n.Leaf() {
			dn.Attr("style", "filled")
			dn.Attr("fillcolor", "lightgrey")
			dn.Attr("label", leafLabel(n, opts))
		} else {
			dn.Attr("label", keyList(n.Keys()))
		}

		order = append(order, n)
		nodes[n] = dn
		queue = append(queue, n.Children()...)
	}

	for _, n := range order {
		for _, c := range n.Children() {
			g.Edge(nodes[n], nodes[c])
		}
	}

	// The leaf chain must not influence layout.
	for l := leftmostLeaf(t); l.Next() != nil; l = l.Next() {
		g.Edge(nodes[l], nodes[l.Next()]).
			Attr("style", "dashed").
			Attr("constraint", "false")
	}

	return g.String()
}

// WriteDOT writes the DOT rendering of the tree to w.
func WriteDOT[K, V any](w io.Writer, t *bptree.Tree[K, V], optFns ...func(*Options)) error {
	_, err := io.WriteString(w, DOT(t, optFns...))
	return err
}

// Text renders the tree level by level, one line per level and one
// bracketed key list per node.
func Text[K, V any](t *bptree.Tree[K, V]) string {
	var sb strings.Builder
	level := []*bptree.Node[K, V]{t.Root()}
	for len(level) > 0 {
		var next []*bptree.Node[K, V]
		parts := make([]string, len(level))
		for i, n := range level {
			parts[i] = keyList(n.Keys())
			next = append(next, n.Children()...)
		}
		sb.WriteString(strings.Join(parts, " "))
		sb.WriteByte('\n')
		level = next
	}
	return sb.String()
}

// WriteText writes the level dump of the tree to w.
func WriteText[K, V any](w io.Writer, t *bptree.Tree[K, V]) error {
	_, err := io.WriteString(w, Text(t))
	return err
}

func leftmostLeaf[K, V any](t *bptree.Tree[K, V]) *bptree.Node[K, V] {
	n := t.Root()
	for !n.Leaf() {
		n = n.Children()[0]
	}
	return n
}

func keyList[K any](keys []K) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprint(k)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func leafLabel[K, V any](n *bptree.Node[K, V], opts Options) string {
	if !opts.ShowValues {
		return keyList(n.Keys())
	}
	keys, values := n.Keys(), n.Values()
	parts := make([]string, len(keys))
	for i := range keys {
		parts[i] = fmt.Sprintf("%v=%s", keys[i], truncate(fmt.Sprint(values[i]), opts.MaxValueLen))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

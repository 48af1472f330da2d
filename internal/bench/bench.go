// Package bench measures B+ tree operation latency across orders and tree
// sizes.
package bench

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hupe1980/btreego/bptree"
	"github.com/hupe1980/btreego/internal/workload"
	"github.com/hupe1980/btreego/model"
)

// Config controls a benchmark sweep.
type Config struct {
	// Sizes are the key counts to build trees with.
	Sizes []int

	// Orders are the tree orders to sweep.
	Orders []int

	// Lookups is the number of point lookups measured per tree. Zero skips
	// the phase.
	Lookups int

	// Ranges is the number of range scans measured per tree. Zero skips the
	// phase.
	Ranges int

	// RangeSize is the width of each scanned key interval.
	RangeSize int64

	// Seed feeds the workload generator.
	Seed int64

	// OnResult, when set, is called after each measured phase.
	OnResult func(Result)
}

// DefaultConfig returns the default sweep.
func DefaultConfig() Config {
	return Config{
		Sizes:     []int{1_000, 10_000, 100_000},
		Orders:    []int{4, 16, 64, 256},
		Lookups:   10_000,
		Ranges:    1_000,
		RangeSize: 100,
		Seed:      1,
	}
}

// Result is one measured phase of a sweep. AllocMB and HeapObjects are
// captured after the insert phase only, with a forced GC so live tree data
// is measured rather than garbage.
type Result struct {
	Op          string
	Order       int
	Size        int
	Ops         int
	Total       time.Duration
	NsPerOp     float64
	AllocMB     uint64
	HeapObjects uint64
}

func (r Result) String() string {
	s := fmt.Sprintf("%-6s order=%-4d size=%-8s %10s/op",
		r.Op, r.Order, humanize.Comma(int64(r.Size)), time.Duration(int64(r.NsPerOp)))

	if r.Op == "insert" {
		s += fmt.Sprintf("  heap=%dMB objects=%s", r.AllocMB, humanize.Comma(int64(r.HeapObjects))) // nolint gosec
	}

	return s
}

// Run executes the configured sweep. Cancellation is checked between
// order/size combinations; the results collected so far are returned along
// with the context error.
func Run(ctx context.Context, cfg Config) ([]Result, error) {
	var results []Result

	for _, order := range cfg.Orders {
		for _, size := range cfg.Sizes {
			if err := ctx.Err(); err != nil {
				return results, err
			}

			combo, err := runCombo(cfg, order, size)
			if err != nil {
				return results, err
			}

			for _, res := range combo {
				if cfg.OnResult != nil {
					cfg.OnResult(res)
				}

				results = append(results, res)
			}
		}
	}

	return results, nil
}

func runCombo(cfg Config, order, size int) ([]Result, error) {
	rng := workload.NewRNG(cfg.Seed)

	keys := rng.UniqueIntKeys(size, int64(size)*8)
	records := rng.Records(size)

	tree, err := bptree.New[model.Key, model.Record](order, model.Compare)
	if err != nil {
		return nil, err
	}

	var results []Result

	start := time.Now()

	for i, k := range keys {
		tree.Insert(k, records[i])
	}

	total := time.Since(start)

	if err := tree.Check(); err != nil {
		return nil, fmt.Errorf("tree check after insert: %w", err)
	}

	if tree.Len() != size {
		return nil, fmt.Errorf("tree holds %d keys after %d inserts", tree.Len(), size)
	}

	insert := newResult("insert", order, size, size, total)
	insert.AllocMB, insert.HeapObjects = heapStats()
	results = append(results, insert)

	if cfg.Lookups > 0 {
		sample := rng.Sample(keys, cfg.Lookups)

		hits := 0
		start = time.Now()

		for _, k := range sample {
			if _, ok := tree.Get(k); ok {
				hits++
			}
		}

		total = time.Since(start)

		if hits != len(sample) {
			return nil, fmt.Errorf("lookups hit %d of %d keys", hits, len(sample))
		}

		results = append(results, newResult("search", order, size, len(sample), total))
	}

	if cfg.Ranges > 0 {
		starts := rng.Sample(keys, cfg.Ranges)

		scanned := 0
		start = time.Now()

		for _, from := range starts {
			v, _ := from.Int()
			to := model.IntKey(v + cfg.RangeSize)

			for range tree.Range(from, to) {
				scanned++
			}
		}

		total = time.Since(start)

		// The start key itself is inside every scanned interval.
		if scanned < cfg.Ranges {
			return nil, fmt.Errorf("range scans visited %d entries over %d scans", scanned, cfg.Ranges)
		}

		results = append(results, newResult("range", order, size, cfg.Ranges, total))
	}

	start = time.Now()

	for _, k := range keys {
		tree.Delete(k)
	}

	total = time.Since(start)

	if tree.Len() != 0 {
		return nil, fmt.Errorf("tree holds %d keys after deleting all", tree.Len())
	}

	results = append(results, newResult("delete", order, size, size, total))

	return results, nil
}

func newResult(op string, order, size, ops int, total time.Duration) Result {
	r := Result{Op: op, Order: order, Size: size, Ops: ops, Total: total}
	if ops > 0 {
		r.NsPerOp = float64(total.Nanoseconds()) / float64(ops)
	}

	return r
}

func heapStats() (allocMB, heapObjects uint64) {
	runtime.GC()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return m.Alloc / 1024 / 1024, m.HeapObjects
}

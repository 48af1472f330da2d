// Package workload generates synthetic keys and records for the demo and
// benchmark commands.
package workload

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/btreego/model"
)

// RNG encapsulates the random number generator and seed.
type RNG struct {
	rand *rand.Rand
	seed int64
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Seed returns the seed the generator was created with.
func (r *RNG) Seed() int64 { return r.seed }

// UniqueIntKeys draws n distinct keys from [1, space]. A space smaller than
// n is widened to 2n so the draw always terminates.
func (r *RNG) UniqueIntKeys(n int, space int64) []model.Key {
	if space < int64(n) {
		space = 2 * int64(n)
	}

	seen := roaring64.New()
	keys := make([]model.Key, 0, n)

	for len(keys) < n {
		k := r.rand.Int63n(space) + 1
		if !seen.CheckedAdd(uint64(k)) {
			continue
		}

		keys = append(keys, model.IntKey(k))
	}

	return keys
}

// UniqueStringKeys draws n distinct string keys of the form user-<number>.
func (r *RNG) UniqueStringKeys(n int, space int64) []model.Key {
	keys := r.UniqueIntKeys(n, space)

	out := make([]model.Key, len(keys))
	for i, k := range keys {
		v, _ := k.Int()
		out[i] = model.StringKey(fmt.Sprintf("user-%08d", v))
	}

	return out
}

// ShuffledIntKeys returns the keys 1..n in random order.
func (r *RNG) ShuffledIntKeys(n int) []model.Key {
	keys := make([]model.Key, n)
	for i := range keys {
		keys[i] = model.IntKey(int64(i + 1))
	}

	r.rand.Shuffle(len(keys), func(i, j int) {
		keys[i], keys[j] = keys[j], keys[i]
	})

	return keys
}

// Sample returns n keys drawn from keys with replacement.
func (r *RNG) Sample(keys []model.Key, n int) []model.Key {
	if len(keys) == 0 {
		return nil
	}

	out := make([]model.Key, n)
	for i := range out {
		out[i] = keys[r.rand.Intn(len(keys))]
	}

	return out
}

var (
	firstNames = []string{
		"Ada", "Grace", "Alan", "Edsger", "Barbara",
		"Donald", "Tony", "Radia", "Ken", "Dennis",
	}
	lastNames = []string{
		"Lovelace", "Hopper", "Turing", "Dijkstra", "Liskov",
		"Knuth", "Hoare", "Perlman", "Thompson", "Ritchie",
	}
	domains = []string{"example.com", "example.org", "example.net"}
)

// Record generates one synthetic user record.
func (r *RNG) Record() model.Record {
	first := firstNames[r.rand.Intn(len(firstNames))]
	last := lastNames[r.rand.Intn(len(lastNames))]

	return model.Record{
		"name":   first + " " + last,
		"email":  strings.ToLower(first) + "." + strings.ToLower(last) + "@" + domains[r.rand.Intn(len(domains))],
		"score":  float64(r.rand.Intn(10000)) / 10,
		"active": r.rand.Intn(4) != 0,
	}
}

// Records generates n synthetic user records.
func (r *RNG) Records(n int) []model.Record {
	records := make([]model.Record, n)
	for i := range records {
		records[i] = r.Record()
	}

	return records
}

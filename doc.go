// Package btreego provides an embedded ordered database for Go, built on
// an in-memory B+ tree per table.
//
// Tables map keys to schemaless records and keep them in key order, so
// point lookups, ascending scans, and inclusive range queries all run
// against the same tree. A catalog of named tables sits behind a single
// lock and is safe for concurrent use.
//
// # Quick Start
//
//	ctx := context.Background()
//
//	db := btreego.NewBuilder().Order(8).MustBuild()
//	defer db.Close()
//
//	users, _ := db.CreateTable(ctx, "users", 0)
//	_ = users.Insert(ctx, model.IntKey(1), model.Record{"name": "ada"})
//	rec, _ := users.Get(ctx, model.IntKey(1))
//	entries, _ := users.Range(ctx, model.IntKey(1), model.IntKey(100))
//
// # Snapshots
//
// Persistence is snapshot-oriented: a save writes one blob per table and
// commits the set as the next manifest version. Any blobstore.BlobStore
// works as a backend.
//
//	store := blobstore.NewLocalStore("./data")
//	db, _ := btreego.NewBuilder().Store(store).Zstd().Open(ctx)
//	defer db.Close()
//
//	// ... mutate tables ...
//	_, _ = db.Save(ctx)
//
// Enable Autosave() to persist after every mutation instead.
//
// # Key Features
//
//   - Ordered tables backed by B+ trees (point reads, ascending scans, inclusive range queries)
//   - Multi-table catalog, safe for concurrent use
//   - Versioned snapshot persistence over pluggable blob stores (local disk, memory, S3, MinIO)
//   - Manifest-pointer commits with conditional writes for multi-writer backends
//   - LZ4 and Zstandard snapshot compression
//   - Graphviz DOT and plain-text tree rendering
package btreego

// Package mmap provides read-only memory-mapped file access.
//
// The local blob store maps snapshot files instead of buffering them:
// loads read straight from the page cache without a copy through user
// space.
//
//	m, err := mmap.Open("customers-000003.bpt")
//	if err != nil { ... }
//	defer m.Close()
//	data := m.Bytes()
//
// Unix platforms use mmap(2) with madvise(2) for access hints; on
// Windows the mapping goes through CreateFileMapping/MapViewOfFile and
// Advise is a no-op. Mappings are safe for concurrent reads; Close is
// idempotent, and no goroutine may touch Bytes() after Close returns.
package mmap

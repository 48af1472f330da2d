// Package persistence serializes table snapshots to durable storage.
//
// A snapshot file is self-describing. It starts with a fixed header
// (magic number, format version, compression flag, codec name), followed
// by the codec-encoded and optionally compressed payload, and ends with a
// CRC32 trailer covering every preceding byte. Readers verify the trailer
// before decoding, so torn writes and bit rot surface as
// ChecksumMismatchError instead of silently corrupt tables.
//
// The Manager coordinates whole-catalog saves and loads on top of a
// blobstore.BlobStore: each table is written as a versioned blob and the
// set is committed atomically through a manifest. Standalone helpers
// (SaveToFile, LoadFromFile, Encode, Decode) cover single-file use from
// the CLI.
package persistence

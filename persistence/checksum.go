package persistence

import (
	"errors"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
)

// crcTable is the polynomial table for snapshot checksums (CRC32 IEEE).
var crcTable = crc32.MakeTable(crc32.IEEE)

// CalculateChecksum returns the CRC32 of data.
func CalculateChecksum(data []byte) uint32 {
	return crc32.Checksum(data, crcTable)
}

// ChecksumMismatchError reports a snapshot whose stored trailer does not
// match the checksum computed over its contents.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("persistence: checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

// IsChecksumMismatch reports whether err is a ChecksumMismatchError.
func IsChecksumMismatch(err error) bool {
	var mismatch *ChecksumMismatchError
	return errors.As(err, &mismatch)
}

// ChecksumWriter passes writes through to the underlying writer while
// accumulating a CRC32 over everything written.
type ChecksumWriter struct {
	w    io.Writer
	hash hash.Hash32
}

// NewChecksumWriter wraps w.
func NewChecksumWriter(w io.Writer) *ChecksumWriter {
	return &ChecksumWriter{w: w, hash: crc32.New(crcTable)}
}

// Write writes p to the underlying writer and folds it into the checksum.
func (cw *ChecksumWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	if n > 0 {
		// Hash only what actually reached the writer.
		cw.hash.Write(p[:n])
	}
	return n, err
}

// Sum returns the checksum of all bytes written so far.
func (cw *ChecksumWriter) Sum() uint32 {
	return cw.hash.Sum32()
}

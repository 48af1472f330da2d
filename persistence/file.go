package persistence

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// fileBufferSize is the write buffer used when saving snapshot files.
const fileBufferSize = 256 * 1024

// SaveToFile writes snap to path atomically: the snapshot is written to
// a temp file in the same directory, synced, and renamed into place, so
// a crash mid-save never leaves a partial file under path.
func SaveToFile(path string, snap *Snapshot, opts EncodeOptions) error {
	return writeFileAtomic(path, func(w io.Writer) error {
		_, _, err := Encode(w, snap, opts)
		return err
	})
}

// LoadFromFile reads and decodes the snapshot at path.
func LoadFromFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("persistence: read %s: %w", path, err)
	}
	snap, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("persistence: load %s: %w", path, err)
	}
	return snap, nil
}

// InspectFile parses only the header and framing of the snapshot at
// path, without decoding the payload.
func InspectFile(path string) (Header, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Header{}, fmt.Errorf("persistence: read %s: %w", path, err)
	}
	return ParseHeader(data)
}

func writeFileAtomic(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("persistence: create temp file: %w", err)
	}
	tmpName := f.Name()
	defer func() {
		if tmpName != "" {
			os.Remove(tmpName)
		}
	}()

	if err := f.Chmod(0o644); err != nil {
		f.Close()
		return fmt.Errorf("persistence: chmod temp file: %w", err)
	}

	bw := bufio.NewWriterSize(f, fileBufferSize)
	if err := write(bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("persistence: flush %s: %w", tmpName, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("persistence: sync %s: %w", tmpName, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("persistence: close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("persistence: rename into place: %w", err)
	}
	tmpName = ""

	// Persist the rename itself. Directory sync is unsupported on some
	// platforms, so a failure here is not fatal.
	if d, derr := os.Open(dir); derr == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}

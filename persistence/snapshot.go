package persistence

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hupe1980/btreego/codec"
	"github.com/hupe1980/btreego/model"
)

// Item is one key/record pair of a snapshot.
type Item struct {
	Key   model.Key    `json:"k"`
	Value model.Record `json:"v"`
}

// Snapshot is the serialized state of a single table: its name, tree
// order, and every stored pair in ascending key order. Loading a
// snapshot bulk-builds the tree from Items, so the order of the slice
// matters.
type Snapshot struct {
	Table string `json:"table"`
	Order int    `json:"order"`
	Items []Item `json:"items"`
}

// EncodeOptions control how a snapshot is written.
type EncodeOptions struct {
	// Codec encodes the payload. Nil means codec.Default.
	Codec codec.Codec

	// Compression is applied to the encoded payload.
	Compression Compression
}

// Encode writes snap to w in the snapshot file format and returns the
// total number of bytes written and the CRC32 recorded in the trailer.
func Encode(w io.Writer, snap *Snapshot, opts EncodeOptions) (int64, uint32, error) {
	c := opts.Codec
	if c == nil {
		c = codec.Default
	}
	name := c.Name()
	if len(name) == 0 || len(name) > 255 {
		return 0, 0, fmt.Errorf("persistence: codec name %q out of range", name)
	}

	payload, err := c.Marshal(snap)
	if err != nil {
		return 0, 0, fmt.Errorf("persistence: encode snapshot %q: %w", snap.Table, err)
	}

	count := &countingWriter{w: w}
	cw := NewChecksumWriter(count)

	var hdr [headerBaseLen]byte
	binary.BigEndian.PutUint32(hdr[0:4], Magic)
	binary.BigEndian.PutUint16(hdr[4:6], FormatVersion)
	binary.BigEndian.PutUint16(hdr[6:8], uint16(opts.Compression)&compressionMask)
	hdr[8] = byte(len(name))
	if _, err := cw.Write(hdr[:]); err != nil {
		return count.n, 0, err
	}
	if _, err := io.WriteString(cw, name); err != nil {
		return count.n, 0, err
	}

	zw, err := newCompressor(cw, opts.Compression)
	if err != nil {
		return count.n, 0, err
	}
	if _, err := zw.Write(payload); err != nil {
		return count.n, 0, fmt.Errorf("persistence: compress snapshot %q: %w", snap.Table, err)
	}
	if err := zw.Close(); err != nil {
		return count.n, 0, fmt.Errorf("persistence: compress snapshot %q: %w", snap.Table, err)
	}

	// The trailer covers everything before it and bypasses the
	// checksum writer.
	sum := cw.Sum()
	var trailer [trailerLen]byte
	binary.BigEndian.PutUint32(trailer[:], sum)
	if _, err := count.Write(trailer[:]); err != nil {
		return count.n, 0, err
	}
	return count.n, sum, nil
}

// Decode parses a complete snapshot file. The trailer checksum is
// verified before the payload is decompressed or decoded.
func Decode(data []byte) (*Snapshot, error) {
	hdr, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	body := data[:len(data)-trailerLen]
	if sum := CalculateChecksum(body); sum != hdr.Checksum {
		return nil, &ChecksumMismatchError{Expected: hdr.Checksum, Actual: sum}
	}

	start := headerBaseLen + len(hdr.Codec)
	zr, err := newDecompressor(bytes.NewReader(data[start:len(data)-trailerLen]), hdr.Compression)
	if err != nil {
		return nil, err
	}
	payload, err := io.ReadAll(zr)
	zr.Close()
	if err != nil {
		return nil, fmt.Errorf("persistence: decompress snapshot: %w", err)
	}

	c, ok := codec.ByName(hdr.Codec)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, hdr.Codec)
	}
	var snap Snapshot
	if err := c.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("persistence: decode snapshot: %w", err)
	}
	return &snap, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

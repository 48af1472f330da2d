package persistence

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// Magic identifies snapshot files. The bytes read "BPT1" in a hex dump.
	Magic uint32 = 0x42505431

	// FormatVersion is the snapshot format version written by this package.
	FormatVersion uint16 = 1
)

const (
	// headerBaseLen is the fixed header prefix: magic (4), version (2),
	// flags (2), codec name length (1). The codec name follows.
	headerBaseLen = 9

	// trailerLen is the CRC32 trailer at the end of the file.
	trailerLen = 4

	// compressionMask selects the compression bits of the flags field.
	compressionMask uint16 = 0x000f
)

var (
	// ErrInvalidMagic indicates the data does not start with Magic.
	ErrInvalidMagic = errors.New("persistence: invalid magic number")

	// ErrInvalidVersion indicates an unsupported format version.
	ErrInvalidVersion = errors.New("persistence: unsupported format version")

	// ErrTruncated indicates the data is too short to be a snapshot file.
	ErrTruncated = errors.New("persistence: truncated snapshot")

	// ErrUnknownCodec indicates the header names a codec this build
	// does not provide.
	ErrUnknownCodec = errors.New("persistence: unknown codec")
)

// Header is the decoded snapshot file header plus the trailer checksum.
type Header struct {
	Version     uint16
	Compression Compression
	Codec       string

	// PayloadLen is the length in bytes of the (compressed) payload
	// between header and trailer.
	PayloadLen int64

	// Checksum is the CRC32 recorded in the trailer. It covers every
	// byte of the file before the trailer itself.
	Checksum uint32
}

// ParseHeader validates the fixed header and trailer framing of data and
// returns the decoded Header. It does not verify the checksum; Decode
// does that before touching the payload.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < headerBaseLen+trailerLen {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}
	if magic := binary.BigEndian.Uint32(data[0:4]); magic != Magic {
		return Header{}, fmt.Errorf("%w: 0x%08x", ErrInvalidMagic, magic)
	}

	version := binary.BigEndian.Uint16(data[4:6])
	if version != FormatVersion {
		return Header{}, fmt.Errorf("%w: %d (want %d)", ErrInvalidVersion, version, FormatVersion)
	}

	flags := binary.BigEndian.Uint16(data[6:8])
	compression := Compression(flags & compressionMask)
	if compression > CompressionZstd {
		return Header{}, fmt.Errorf("%w: %d", ErrUnknownCompression, compression)
	}

	nameLen := int(data[8])
	if len(data) < headerBaseLen+nameLen+trailerLen {
		return Header{}, fmt.Errorf("%w: codec name cut short", ErrTruncated)
	}

	return Header{
		Version:     version,
		Compression: compression,
		Codec:       string(data[headerBaseLen : headerBaseLen+nameLen]),
		PayloadLen:  int64(len(data) - headerBaseLen - nameLen - trailerLen),
		Checksum:    binary.BigEndian.Uint32(data[len(data)-trailerLen:]),
	}, nil
}
